package query

import (
	"fmt"
	"time"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID 为每个请求分配唯一ID,写入响应头,供日志关联
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger 记录每个请求的方法、路径、状态码和耗时
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	tagged := logger.WithTag("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		tagged.Info(fmt.Sprintf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start)), map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"client_ip":  c.ClientIP(),
		})
	}
}
