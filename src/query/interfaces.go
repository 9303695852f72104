package query

import (
	"context"

	"github.com/gin-gonic/gin"
)

// QueryService 定义问答服务接口
type QueryService interface {
	// 将问答相关的路由注册到engine
	Start(ctx context.Context, engine *gin.Engine) error
}
