package query

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/configs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/answer"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/caption"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/ratelimit"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"

	"github.com/gin-gonic/gin"
)

const (
	// 最大上传文件大小为5MB
	MAX_FILE_SIZE = 5 * 1024 * 1024
)

// DefaultQueryService 问答HTTP服务,负责请求校验、限流和错误到状态码的转换
type DefaultQueryService struct {
	config   *configs.Config
	logger   *utils.Logger
	answers  *answer.Service
	captions *caption.Selector
	limiter  *ratelimit.Limiter
}

// NewDefaultQueryService 构造函数
func NewDefaultQueryService(config *configs.Config, logger *utils.Logger, answers *answer.Service, captions *caption.Selector) *DefaultQueryService {
	return &DefaultQueryService{
		config:   config,
		logger:   logger,
		answers:  answers,
		captions: captions,
		limiter:  ratelimit.NewLimiter(),
	}
}

// Start 实现 QueryService 接口,注册所有问答相关路由
func (s *DefaultQueryService) Start(ctx context.Context, engine *gin.Engine) error {
	// 健康检查不限流,任何时候返回同样的结果
	engine.GET("/health", s.handleHealth)

	engine.POST("/query/text",
		ratelimit.Middleware(s.limiter, "query/text", s.config.RateLimit.Text),
		s.handleTextQuery)
	engine.POST("/query/image",
		ratelimit.Middleware(s.limiter, "query/image", s.config.RateLimit.Image),
		s.handleImageQuery)

	// CORS预检
	engine.OPTIONS("/query/text", s.handleOptions)
	engine.OPTIONS("/query/image", s.handleOptions)

	s.logger.Info("问答HTTP服务路由注册完成")
	return nil
}

// handleOptions 处理OPTIONS请求（CORS）
func (s *DefaultQueryService) handleOptions(c *gin.Context) {
	s.addCORSHeaders(c)
	c.Status(http.StatusOK)
}

// handleHealth 处理健康检查请求
func (s *DefaultQueryService) handleHealth(c *gin.Context) {
	s.addCORSHeaders(c)
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleTextQuery 处理纯文本问答请求
func (s *DefaultQueryService) handleTextQuery(c *gin.Context) {
	s.addCORSHeaders(c)

	var req TextQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == nil {
		s.respondError(c, errs.Validation("Missing question"))
		return
	}

	answerText, err := s.answers.AnswerText(c.Request.Context(), *req.Question)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, QueryResponse{Answer: answerText})
}

// handleImageQuery 处理图片问答请求
func (s *DefaultQueryService) handleImageQuery(c *gin.Context) {
	s.addCORSHeaders(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.respondError(c, errs.Validation("No file uploaded"))
		return
	}
	defer file.Close()

	if header.Size > MAX_FILE_SIZE {
		s.respondError(c, errs.Validation(fmt.Sprintf("File too large, maximum allowed is %dMB", MAX_FILE_SIZE/1024/1024)))
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.respondError(c, errs.Validation(fmt.Sprintf("Failed to read uploaded file: %v", err)))
		return
	}

	// question字段可选,为空时由AnswerService替换为默认问题
	question := c.Request.FormValue("question")

	selected, err := s.captions.Select(c.Request.Context(), imageData)
	if err != nil {
		s.respondError(c, err)
		return
	}

	answerText, err := s.answers.AnswerImage(c.Request.Context(), selected, question)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, QueryResponse{Answer: answerText})
}

// respondError 下游错误在这里统一转换成JSON错误信封,只暴露消息本身
func (s *DefaultQueryService) respondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := errs.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		s.logger.Warn(fmt.Sprintf("问答请求处理失败: %v", err), map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		})
	}

	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// addCORSHeaders 添加CORS头
func (s *DefaultQueryService) addCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Headers", "content-type, authorization")
	c.Header("Access-Control-Allow-Credentials", "true")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}
