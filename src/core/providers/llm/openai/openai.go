package openai

import (
	"context"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/llm"

	"github.com/sashabaranov/go-openai"
)

// Provider OpenAI接口风格的补全提供者。
// HuggingFace的router与各类自建推理服务都兼容这套chat completions协议。
type Provider struct {
	*llm.BaseProvider
	client *openai.Client
}

// 注册提供者
func init() {
	llm.Register("openai", NewProvider)
}

// NewProvider 创建OpenAI提供者
func NewProvider(config *llm.Config) (llm.Provider, error) {
	return &Provider{
		BaseProvider: llm.NewBaseProvider(config),
	}, nil
}

// Initialize 初始化提供者,凭据缺失在这里暴露,早于任何请求
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return errs.Config("missing API key for completion provider")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Cleanup 清理资源
func (p *Provider) Cleanup() error {
	return nil
}

// Chat 发起一次补全请求,返回第一个choice的内容
func (p *Provider) Chat(ctx context.Context, messages []providers.Message, opts llm.ChatOptions) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.Config().MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       p.Config().ModelName,
			Messages:    chatMessages,
			MaxTokens:   maxTokens,
			Temperature: opts.Temperature,
		},
	)
	if err != nil {
		return "", errs.Upstream("completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errs.Upstream("completion returned no choices", nil)
	}

	return resp.Choices[0].Message.Content, nil
}
