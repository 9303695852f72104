package image

import (
	"fmt"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/configs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"
)

// Validator 图片安全验证器
type Validator struct {
	config *configs.SecurityConfig
	logger *utils.Logger
}

// NewValidator 创建新的图片安全验证器
func NewValidator(config *configs.SecurityConfig, logger *utils.Logger) *Validator {
	return &Validator{
		config: config,
		logger: logger,
	}
}

// Validate 校验并解码图片字节,返回RGB像素缓冲区和识别出的格式。
// 所有失败都归为解码类错误,由路由边界统一转换。
func (v *Validator) Validate(data []byte) (*Pixmap, string, error) {
	if len(data) == 0 {
		return nil, "", errs.Decode(fmt.Errorf("image data is empty"))
	}

	// 1. 大小检查
	if v.config.MaxFileSize > 0 && int64(len(data)) > v.config.MaxFileSize {
		v.logger.Warn(fmt.Sprintf("检测到超大文件: %d bytes,最大允许: %d bytes", len(data), v.config.MaxFileSize))
		return nil, "", errs.Decode(fmt.Errorf("image exceeds maximum size of %d bytes", v.config.MaxFileSize))
	}

	// 2. 文件头检查
	format := DetectFormat(data)
	if format == "" {
		return nil, "", errs.Decode(fmt.Errorf("unrecognized image format"))
	}
	if !v.isFormatAllowed(format) {
		return nil, "", errs.Decode(fmt.Errorf("unsupported image format: %s", format))
	}

	// 3. 解码为RGB像素缓冲区
	pixmap, decodedFormat, err := Decode(data)
	if err != nil {
		return nil, "", errs.Decode(err)
	}

	// 4. 尺寸检查
	if v.config.MaxWidth > 0 && pixmap.Width > v.config.MaxWidth {
		return nil, "", errs.Decode(fmt.Errorf("image width %d exceeds maximum %d", pixmap.Width, v.config.MaxWidth))
	}
	if v.config.MaxHeight > 0 && pixmap.Height > v.config.MaxHeight {
		return nil, "", errs.Decode(fmt.Errorf("image height %d exceeds maximum %d", pixmap.Height, v.config.MaxHeight))
	}
	if v.config.MaxPixels > 0 && int64(pixmap.Width)*int64(pixmap.Height) > v.config.MaxPixels {
		return nil, "", errs.Decode(fmt.Errorf("image has too many pixels: %d", int64(pixmap.Width)*int64(pixmap.Height)))
	}

	return pixmap, decodedFormat, nil
}

// isFormatAllowed 检查格式是否在允许列表中,列表为空时全部允许
func (v *Validator) isFormatAllowed(format string) bool {
	if len(v.config.AllowedFormats) == 0 {
		return true
	}
	for _, allowed := range v.config.AllowedFormats {
		if allowed == format {
			return true
		}
	}
	return false
}
