package answer

import (
	"context"
	"testing"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/configs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/llm"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"
)

// fakeLLM 记录收到的消息和采样参数
type fakeLLM struct {
	answer string
	err    error

	gotMessages []providers.Message
	gotOpts     llm.ChatOptions
}

func (f *fakeLLM) Initialize() error { return nil }
func (f *fakeLLM) Cleanup() error    { return nil }

func (f *fakeLLM) Chat(ctx context.Context, messages []providers.Message, opts llm.ChatOptions) (string, error) {
	f.gotMessages = messages
	f.gotOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestService(t *testing.T, fake *fakeLLM) *Service {
	t.Helper()
	config := &configs.Config{}
	config.Log.LogDir = t.TempDir()
	config.Log.LogFile = "test.log"
	config.Log.LogLevel = "error"

	logger, err := utils.NewLogger(config)
	if err != nil {
		t.Fatalf("创建测试日志器失败: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	return NewService(fake, logger)
}

func TestAnswerText(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{"普通问题", "What is 2+2?"},
		{"带标点的问题", "Why is the sky blue, and why does it change at sunset?"},
		{"中文问题", "天空为什么是蓝色的？"},
		{"带空白的问题原样传递", "  spaces preserved  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{answer: "the answer"}
			service := newTestService(t, fake)

			got, err := service.AnswerText(context.Background(), tt.question)
			if err != nil {
				t.Fatalf("AnswerText() error = %v", err)
			}
			if got != "the answer" {
				t.Errorf("AnswerText() = %q, want %q", got, "the answer")
			}

			if len(fake.gotMessages) != 2 {
				t.Fatalf("got %d messages, want 2", len(fake.gotMessages))
			}
			if fake.gotMessages[0].Role != "system" || fake.gotMessages[0].Content != "You are an AI assistant. Answer clearly." {
				t.Errorf("system message = %+v", fake.gotMessages[0])
			}
			// 问题必须原样进入user消息,不截断不改写
			if fake.gotMessages[1].Role != "user" || fake.gotMessages[1].Content != tt.question {
				t.Errorf("user message = %+v, want question %q", fake.gotMessages[1], tt.question)
			}
			if fake.gotOpts.MaxTokens != 200 {
				t.Errorf("MaxTokens = %d, want 200", fake.gotOpts.MaxTokens)
			}
			if fake.gotOpts.Temperature != 0.5 {
				t.Errorf("Temperature = %v, want 0.5", fake.gotOpts.Temperature)
			}
		})
	}
}

func TestAnswerImage(t *testing.T) {
	tests := []struct {
		name           string
		caption        string
		question       string
		expectedPrompt string
	}{
		{
			name:           "有问题",
			caption:        "a landscape",
			question:       "Where might this be?",
			expectedPrompt: "The image appears to show: a landscape. User question: Where might this be?",
		},
		{
			name:           "空问题替换为默认问题",
			caption:        "an animal",
			question:       "",
			expectedPrompt: "The image appears to show: an animal. User question: Describe the image.",
		},
		{
			name:           "纯空白问题替换为默认问题",
			caption:        "a vehicle",
			question:       "   \t\n ",
			expectedPrompt: "The image appears to show: a vehicle. User question: Describe the image.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{answer: "description"}
			service := newTestService(t, fake)

			got, err := service.AnswerImage(context.Background(), tt.caption, tt.question)
			if err != nil {
				t.Fatalf("AnswerImage() error = %v", err)
			}
			if got != "description" {
				t.Errorf("AnswerImage() = %q, want %q", got, "description")
			}

			if len(fake.gotMessages) != 2 {
				t.Fatalf("got %d messages, want 2", len(fake.gotMessages))
			}
			if fake.gotMessages[0].Content != "You are an AI assistant." {
				t.Errorf("system message = %q", fake.gotMessages[0].Content)
			}
			if fake.gotMessages[1].Content != tt.expectedPrompt {
				t.Errorf("prompt = %q, want %q", fake.gotMessages[1].Content, tt.expectedPrompt)
			}
			if fake.gotOpts.MaxTokens != 300 {
				t.Errorf("MaxTokens = %d, want 300", fake.gotOpts.MaxTokens)
			}
			if fake.gotOpts.Temperature != 0.5 {
				t.Errorf("Temperature = %v, want 0.5", fake.gotOpts.Temperature)
			}
		})
	}
}

func TestAnswerErrorPropagation(t *testing.T) {
	fake := &fakeLLM{err: errs.Upstream("completion returned no choices", nil)}
	service := newTestService(t, fake)

	if _, err := service.AnswerText(context.Background(), "hello"); err == nil {
		t.Fatal("expected upstream error from AnswerText")
	} else if errs.KindOf(err) != errs.KindUpstream {
		t.Errorf("kind = %v, want KindUpstream", errs.KindOf(err))
	}

	if _, err := service.AnswerImage(context.Background(), "a person", "who?"); err == nil {
		t.Fatal("expected upstream error from AnswerImage")
	}
}
