package classifier

import (
	"context"
	"fmt"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers"
)

// Config 零样本图片分类器配置结构
type Config struct {
	Type      string
	ModelName string
	BaseURL   string
	APIKey    string
}

// ImageInput 待评分的图片,base64编码
type ImageInput struct {
	Data   string
	Format string
}

// Provider 零样本图片分类器提供者接口。
// Scores返回与labels顺序一一对应的相似度得分,不做排序。
type Provider interface {
	providers.Provider
	Scores(ctx context.Context, img ImageInput, labels []string) ([]float64, error)
}

// BaseProvider 分类器基础实现
type BaseProvider struct {
	config *Config
}

// Config 获取配置
func (p *BaseProvider) Config() *Config {
	return p.config
}

// NewBaseProvider 创建分类器基础提供者
func NewBaseProvider(config *Config) *BaseProvider {
	return &BaseProvider{
		config: config,
	}
}

// Initialize 初始化提供者
func (p *BaseProvider) Initialize() error {
	return nil
}

// Cleanup 清理资源
func (p *BaseProvider) Cleanup() error {
	return nil
}

// Factory 分类器工厂函数类型
type Factory func(config *Config) (Provider, error)

var (
	factories = make(map[string]Factory)
)

// Register 注册分类器提供者工厂
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create 创建分类器提供者实例
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown classifier provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create classifier provider failed: %v", err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, err
	}

	return provider, nil
}
