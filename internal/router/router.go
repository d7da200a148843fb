package router

import (
	"net/http"
	"time"

	"sessionaudio/internal/auth"
	"sessionaudio/internal/config"
	"sessionaudio/internal/handler"
	"sessionaudio/internal/middleware"
	"sessionaudio/internal/scanner"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API surface.
func SetupRouter(cfg *config.Config, db *gorm.DB, sc *scanner.Scanner) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 客户端 IP 依赖代理头，只信任配置里声明的代理
	_ = r.SetTrustedProxies(cfg.Server.TrustedProxies)

	// debug 模式下放开前端开发服务器的跨域请求
	if cfg.Server.Mode == "debug" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))
	}

	// ====== API ======
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	guard := auth.NewGuard(db)
	validator := auth.NewValidator(cfg.Auth.PasswordHash)
	devMode := cfg.Server.Mode == "debug"

	authHandler := handler.NewAuthHandler(db, guard, validator,
		cfg.Auth.SessionSecret, cfg.Auth.SessionTTLHours, devMode)

	// 无需登录的接口；登录本身走 IP 限流
	api.POST("/auth/login", middleware.LoginLimiter(), authHandler.Login)
	api.GET("/auth/status", authHandler.Status)
	api.GET("/auth/locked", authHandler.Locked)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.Auth.SessionSecret, db))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/attempts", authHandler.Attempts)

	fileHandler := handler.NewFileHandler(db, sc)
	protected.GET("/files", fileHandler.List)
	protected.GET("/files/:id", fileHandler.Get)
	protected.DELETE("/files/:id", fileHandler.Delete)
	protected.POST("/files/scan", fileHandler.Scan)

	markHandler := handler.NewMarkHandler(db)
	protected.GET("/marks/:fileId", markHandler.ListByFile)
	protected.POST("/marks", markHandler.Create)
	protected.DELETE("/marks/:id", markHandler.Delete)

	// 流式接口不限流，seek 时播放器会频繁开新连接
	streamHandler := handler.NewStreamHandler(db, cfg.Audio.Root)
	protected.GET("/stream/:fileId", streamHandler.Stream)

	return r
}
