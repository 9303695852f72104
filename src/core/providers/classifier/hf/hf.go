package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/classifier"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultModel   = "openai/clip-vit-base-patch32"
)

// Provider HuggingFace托管的零样本图片分类提供者
type Provider struct {
	*classifier.BaseProvider
	httpClient *http.Client
}

// zeroShotRequest HuggingFace零样本分类请求结构
type zeroShotRequest struct {
	Inputs     zeroShotInputs     `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotInputs struct {
	Image string `json:"image"` // base64编码的图片
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// zeroShotResult 单个候选标签的得分
type zeroShotResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// 注册提供者
func init() {
	classifier.Register("huggingface", NewProvider)
}

// NewProvider 创建HuggingFace分类器提供者
func NewProvider(config *classifier.Config) (classifier.Provider, error) {
	return &Provider{
		BaseProvider: classifier.NewBaseProvider(config),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Initialize 初始化提供者
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return errs.Config("missing API key for classifier provider")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.ModelName == "" {
		config.ModelName = defaultModel
	}
	return nil
}

// Cleanup 清理资源
func (p *Provider) Cleanup() error {
	return nil
}

// Scores 调用托管推理接口,按labels的顺序返回每个候选标签的相似度得分。
// 接口返回的结果按得分降序排列,这里按标签重新对齐,保持调用方的顺序语义。
func (p *Provider) Scores(ctx context.Context, img classifier.ImageInput, labels []string) ([]float64, error) {
	payload, err := json.Marshal(zeroShotRequest{
		Inputs:     zeroShotInputs{Image: img.Data},
		Parameters: zeroShotParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, errs.Upstream("encode classifier request failed", err)
	}

	url := p.Config().BaseURL + "/" + p.Config().ModelName
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Upstream("build classifier request failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.Config().APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errs.Upstream("classifier request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Upstream("read classifier response failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Upstream(fmt.Sprintf("classifier returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var results []zeroShotResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, errs.Upstream("malformed classifier response", err)
	}

	byLabel := make(map[string]float64, len(results))
	for _, r := range results {
		byLabel[r.Label] = r.Score
	}

	scores := make([]float64, len(labels))
	for i, label := range labels {
		score, ok := byLabel[label]
		if !ok {
			return nil, errs.Upstream(fmt.Sprintf("classifier response missing label %q", label), nil)
		}
		scores[i] = score
	}

	return scores, nil
}
