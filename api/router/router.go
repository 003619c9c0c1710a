package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netmockpro/netmockpro/api/handler"
	"github.com/netmockpro/netmockpro/internal/service"
	"github.com/netmockpro/netmockpro/pkg/logger"
)

// SetupRouter 设置路由
func SetupRouter(mode string, archive *service.ArchiveService) *gin.Engine {
	// 设置Gin模式
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由引擎
	r := gin.New()

	// 添加中间件
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	// 创建处理器
	generateHandler := handler.NewGenerateHandler(archive)
	mockCmdHandler := handler.NewMockCmdHandler()

	// 根路径
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "NetMock Pro",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 健康检查
		v1.GET("/health", generateHandler.Health)

		// 回显生成
		v1.GET("/commands", generateHandler.ListCommands)
		v1.POST("/generate", generateHandler.Generate)

		// 自定义模拟命令管理
		mockCmds := v1.Group("/mock-cmds")
		{
			mockCmds.GET("", mockCmdHandler.ListMockCmds)
			mockCmds.POST("", mockCmdHandler.CreateMockCmd)
			mockCmds.GET("/:id", mockCmdHandler.GetMockCmd)
			mockCmds.PUT("/:id", mockCmdHandler.UpdateMockCmd)
			mockCmds.DELETE("/:id", mockCmdHandler.DeleteMockCmd)
		}
	}

	return r
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 请求ID中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("%d", time.Now().UnixNano())
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggingMiddleware 访问日志中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}).Info("request completed")
	}
}
