package llm

import (
	"context"
	"fmt"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers"
)

// Config LLM配置结构
type Config struct {
	Type        string
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

// ChatOptions 单次补全请求的采样参数
type ChatOptions struct {
	MaxTokens   int
	Temperature float32
}

// Provider 补全模型提供者接口。每次调用独立,不保留会话状态。
type Provider interface {
	providers.Provider
	Chat(ctx context.Context, messages []providers.Message, opts ChatOptions) (string, error)
}

// BaseProvider LLM基础实现
type BaseProvider struct {
	config *Config
}

// Config 获取配置
func (p *BaseProvider) Config() *Config {
	return p.config
}

// NewBaseProvider 创建LLM基础提供者
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

// Factory LLM工厂函数类型
type Factory func(config *Config) (Provider, error)

var (
	factories = make(map[string]Factory)
)

// Register 注册LLM提供者工厂
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create 创建LLM提供者实例
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider failed: %v", err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, err
	}

	return provider, nil
}
