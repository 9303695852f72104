package caption

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/image"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/classifier"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"
)

// catalog 固定的候选描述列表。顺序决定arg-max的索引语义,调整顺序属于破坏性变更。
var catalog = []string{
	"a person",
	"a group of people",
	"an indoor scene",
	"an outdoor scene",
	"a landscape",
	"a city street",
	"an animal",
	"a vehicle",
	"a document screenshot",
	"a chart or diagram",
	"an object",
}

// Catalog 返回候选描述列表的副本
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Selector 从固定候选列表中为图片挑选最匹配的描述
type Selector struct {
	classifier classifier.Provider
	validator  *image.Validator
	logger     *utils.Logger
}

// NewSelector 创建描述选择器
func NewSelector(provider classifier.Provider, validator *image.Validator, logger *utils.Logger) *Selector {
	return &Selector{
		classifier: provider,
		validator:  validator,
		logger:     logger,
	}
}

// Select 对图片字节做零样本分类,返回得分最高的候选描述。
// 返回值一定是Catalog中的成员,得分不对外暴露。
func (s *Selector) Select(ctx context.Context, data []byte) (string, error) {
	pixmap, format, err := s.validator.Validate(data)
	if err != nil {
		return "", err
	}

	s.logger.Debug(fmt.Sprintf("图片解码完成: %dx%d %s", pixmap.Width, pixmap.Height, format))

	img := classifier.ImageInput{
		Data:   base64.StdEncoding.EncodeToString(data),
		Format: format,
	}
	scores, err := s.classifier.Scores(ctx, img, Catalog())
	if err != nil {
		return "", err
	}
	if len(scores) != len(catalog) {
		return "", errs.Upstream(fmt.Sprintf("classifier returned %d scores for %d captions", len(scores), len(catalog)), nil)
	}

	probs := softmax(scores)
	best := argmax(probs)

	s.logger.Debug(fmt.Sprintf("候选描述得分最高: %q (p=%.4f)", catalog[best], probs[best]))
	return catalog[best], nil
}

// softmax 数值稳定的softmax
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax 返回最大值的索引,并列时取最小索引
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
