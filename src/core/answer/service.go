package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/llm"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"
)

const (
	textSystemPrompt  = "You are an AI assistant. Answer clearly."
	imageSystemPrompt = "You are an AI assistant."

	// 图片问题为空时的兜底问题
	defaultImageQuestion = "Describe the image."

	textMaxTokens  = 200
	imageMaxTokens = 300
	temperature    = 0.5
)

// Service 组装提示词并调用补全模型。每次调用独立,不保留对话历史。
type Service struct {
	llm    llm.Provider
	logger *utils.Logger
}

// NewService 创建应答服务
func NewService(provider llm.Provider, logger *utils.Logger) *Service {
	return &Service{
		llm:    provider,
		logger: logger,
	}
}

// AnswerText 回答纯文本问题,问题原样进入user消息
func (s *Service) AnswerText(ctx context.Context, question string) (string, error) {
	messages := []providers.Message{
		{Role: providers.RoleSystem, Content: textSystemPrompt},
		{Role: providers.RoleUser, Content: question},
	}

	return s.llm.Chat(ctx, messages, llm.ChatOptions{
		MaxTokens:   textMaxTokens,
		Temperature: temperature,
	})
}

// AnswerImage 基于已选出的图片描述回答问题。
// 问题为空或全空白时替换为默认问题,再套用固定提示词模板。
func (s *Service) AnswerImage(ctx context.Context, caption string, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		question = defaultImageQuestion
	}

	prompt := fmt.Sprintf("The image appears to show: %s. User question: %s", caption, question)
	messages := []providers.Message{
		{Role: providers.RoleSystem, Content: imageSystemPrompt},
		{Role: providers.RoleUser, Content: prompt},
	}

	return s.llm.Chat(ctx, messages, llm.ChatOptions{
		MaxTokens:   imageMaxTokens,
		Temperature: temperature,
	})
}
