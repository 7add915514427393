package router

import (
	"fmt"
	"strings"

	"github.com/sorvex/affiliate-api/internal/cache"
	"github.com/sorvex/affiliate-api/internal/config"
	"github.com/sorvex/affiliate-api/internal/constants"
	adminhandlers "github.com/sorvex/affiliate-api/internal/http/handlers/admin"
	publichandlers "github.com/sorvex/affiliate-api/internal/http/handlers/public"
	"github.com/sorvex/affiliate-api/internal/logger"
	"github.com/sorvex/affiliate-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 推广者认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/logout", publicHandler.Logout)
		}

		// 公开接口（折扣校验与成交上报无需登录）
		apiV1.POST("/discounts/validate", publicHandler.ValidateDiscount)
		apiV1.POST("/purchases", publicHandler.CreatePurchase)

		// 推广者接口（需鉴权）
		affiliate := apiV1.Group("")
		affiliate.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AffiliateRepo))
		{
			affiliate.GET("/me", publicHandler.Me)
			affiliate.GET("/affiliates/:id/dashboard", publicHandler.GetDashboard)
		}

		// 运营端接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminKeyMiddleware(cfg.Security.AdminAPIKey))
		{
			admin.GET("/affiliates", adminHandler.ListAffiliates)
			admin.GET("/sales", adminHandler.ListSales)
			admin.PUT("/sales/:id/status", adminHandler.UpdateSaleStatus)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
