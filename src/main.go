package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/configs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/answer"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/caption"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/errs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/image"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/classifier"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/llm"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/utils"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/query"

	// 导入所有providers以确保init函数被调用
	_ "github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/classifier/hf"
	_ "github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/core/providers/llm/openai"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func LoadConfigAndLogger() (*configs.Config, *utils.Logger, error) {
	// 加载配置,默认使用.config.yaml
	config, configPath, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 初始化日志系统
	logger, err := utils.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(fmt.Sprintf("日志系统初始化成功, 配置文件路径: %s", configPath))

	return config, logger, nil
}

// BuildQueryService 构建问答服务。凭据缺失在这里失败,早于任何请求被服务。
func BuildQueryService(config *configs.Config, logger *utils.Logger) (*query.DefaultQueryService, error) {
	selectedLLM := config.SelectedModule["LLM"]
	llmConfig, ok := config.LLM[selectedLLM]
	if !ok {
		return nil, errs.Config(fmt.Sprintf("LLM configuration %q not found", selectedLLM))
	}

	llmAPIKey, err := configs.ResolveSecret(llmConfig.APIKey)
	if err != nil {
		return nil, errs.Config(fmt.Sprintf("completion API credential: %v", err))
	}

	llmProvider, err := llm.Create(llmConfig.Type, &llm.Config{
		Type:        llmConfig.Type,
		ModelName:   llmConfig.ModelName,
		BaseURL:     llmConfig.BaseURL,
		APIKey:      llmAPIKey,
		Temperature: llmConfig.Temperature,
		MaxTokens:   llmConfig.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("LLM provider %s 初始化成功", selectedLLM))

	selectedClassifier := config.SelectedModule["Classifier"]
	classifierConfig, ok := config.Classifier[selectedClassifier]
	if !ok {
		return nil, errs.Config(fmt.Sprintf("classifier configuration %q not found", selectedClassifier))
	}

	classifierAPIKey, err := configs.ResolveSecret(classifierConfig.APIKey)
	if err != nil {
		return nil, errs.Config(fmt.Sprintf("classifier API credential: %v", err))
	}

	classifierProvider, err := classifier.Create(classifierConfig.Type, &classifier.Config{
		Type:      classifierConfig.Type,
		ModelName: classifierConfig.ModelName,
		BaseURL:   classifierConfig.BaseURL,
		APIKey:    classifierAPIKey,
	})
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Classifier provider %s 初始化成功", selectedClassifier))

	validator := image.NewValidator(&classifierConfig.Security, logger)
	selector := caption.NewSelector(classifierProvider, validator, logger)
	answers := answer.NewService(llmProvider, logger)

	return query.NewDefaultQueryService(config, logger, answers, selector), nil
}

func StartHttpServer(config *configs.Config, logger *utils.Logger, queryService *query.DefaultQueryService, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	// 初始化Gin引擎
	if config.Log.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(query.RequestID())
	router.Use(query.RequestLogger(logger))
	router.SetTrustedProxies([]string{"0.0.0.0"})

	if err := queryService.Start(groupCtx, router); err != nil {
		logger.Error("问答服务启动失败", err)
		return nil, err
	}

	// HTTP Server（支持优雅关机）
	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.Info(fmt.Sprintf("Gin 服务已启动,访问地址: http://%s:%d", config.Server.IP, config.Server.Port))

		// 在单独的 goroutine 中监听关闭信号
		go func() {
			<-groupCtx.Done()
			logger.Info("收到关闭信号,开始关闭HTTP服务...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP服务关闭失败", err)
			} else {
				logger.Info("HTTP服务已优雅关闭")
			}
		}()

		// ListenAndServe 返回 ErrServerClosed 时表示正常关闭
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP 服务启动失败", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func GracefulShutdown(cancel context.CancelFunc, logger *utils.Logger, g *errgroup.Group) {
	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// 等待信号
	sig := <-sigChan
	logger.Info(fmt.Sprintf("接收到系统信号: %v,开始优雅关闭服务", sig))

	// 取消上下文,通知所有服务开始关闭
	cancel()

	// 等待所有服务关闭,设置超时保护
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("服务关闭过程中出现错误", err)
			os.Exit(1)
		}
		logger.Info("所有服务已优雅关闭")
	case <-time.After(15 * time.Second):
		logger.Error("服务关闭超时,强制退出")
		os.Exit(1)
	}
}

func main() {
	// 加载 .env 文件,配置里的$ENV引用依赖这些变量
	if err := godotenv.Load(); err != nil {
		fmt.Println("未找到 .env 文件,使用系统环境变量")
	}

	// 加载配置和初始化日志系统
	config, logger, err := LoadConfigAndLogger()
	if err != nil {
		fmt.Println("加载配置或初始化日志系统失败:", err)
		os.Exit(1)
	}

	// 构建问答服务,凭据缺失时进程不开始服务
	queryService, err := BuildQueryService(config, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("初始化问答服务失败: %v", err))
		os.Exit(1)
	}

	// 创建可取消的上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, groupCtx := errgroup.WithContext(ctx)

	if _, err := StartHttpServer(config, logger, queryService, g, groupCtx); err != nil {
		logger.Error("启动服务失败:", err)
		cancel()
		os.Exit(1)
	}

	// 启动优雅关机处理
	GracefulShutdown(cancel, logger, g)

	logger.Info("程序已成功退出")
}
