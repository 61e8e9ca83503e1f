package router

import (
	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	publichandlers "github.com/dujiao-next/storefront/internal/http/handlers/public"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        cache.BuildKey("rate:login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.too_many_requests",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	api := r.Group("/api")
	{
		api.GET("/health", publicHandler.Health)
		api.GET("/config", publicHandler.GetConfig)
		api.GET("/products", publicHandler.GetProducts)
		api.GET("/products/:productId", publicHandler.GetProduct)

		// 用户认证接口
		auth := api.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := api.Group("")
		user.Use(UserJWTAuthMiddleware(c.Tokens))
		{
			user.GET("/auth/me", publicHandler.GetCurrentUser)
			user.GET("/auth/me/login-logs", publicHandler.GetMyLoginLogs)
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart", publicHandler.UpsertCartItem)
			user.PUT("/cart/:productId", publicHandler.UpdateCartItemQuantity)
			user.DELETE("/cart/:productId", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
		}
	}

	return r
}
