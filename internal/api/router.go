package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wfunc/char-sheet/internal/config"
	"github.com/wfunc/char-sheet/internal/middleware"
	"github.com/wfunc/char-sheet/internal/service"
	"github.com/wfunc/char-sheet/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine           *gin.Engine
	db               *gorm.DB
	services         *service.Services
	hub              *websocket.Hub
	authHandler      *AuthHandler
	characterHandler *CharacterHandler
	sheetHandler     *SheetHandler
	wsHandler        *WebSocketHandler
	authMiddleware   *middleware.AuthMiddleware
	log              *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Router {
	dev := cfg.Server.Mode == "development"
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// 创建推送中心
	hub := websocket.NewHub(log)
	go hub.Run()

	// 创建服务
	tokenExpiry := time.Duration(cfg.Security.JWT.ExpireHours) * time.Hour
	services := service.NewServices(db, &service.Config{
		JWTSecret:   cfg.Security.JWT.Secret,
		TokenExpiry: tokenExpiry,
	}, log, hub)

	// 创建处理器
	authHandler := NewAuthHandler(services.Auth, cfg.Security.JWT.CookieName, cfg.Security.JWT.CookieSecure, tokenExpiry, dev)
	characterHandler := NewCharacterHandler(services.Character, dev)
	sheetHandler := NewSheetHandler(services.Sheet, dev)
	wsHandler := NewWebSocketHandler(hub, services.Character, cfg.CORS.AllowOrigins, log, dev)

	// 创建中间件
	authMiddleware := middleware.NewAuthMiddleware(services.JWTManager, cfg.Security.JWT.CookieName)

	router := &Router{
		engine:           engine,
		db:               db,
		services:         services,
		hub:              hub,
		authHandler:      authHandler,
		characterHandler: characterHandler,
		sheetHandler:     sheetHandler,
		wsHandler:        wsHandler,
		authMiddleware:   authMiddleware,
		log:              log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authHandler.Signup)
			auth.POST("/login", r.authHandler.Login)

			// 需要认证的路由
			authRequired := auth.Group("")
			authRequired.Use(r.authMiddleware.RequireAuth())
			{
				authRequired.POST("/logout", r.authHandler.Logout)
				authRequired.GET("/echo", r.authHandler.Echo)
			}
		}

		// 角色卡路由（需要认证）
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			protected.POST("/create-character", r.characterHandler.Create)
			protected.GET("/users/:userId/characters", r.characterHandler.List)

			characters := protected.Group("/characters/:characterId")
			{
				characters.GET("", r.characterHandler.Get)
				characters.PUT("/update", r.characterHandler.Update)
				characters.DELETE("/delete", r.characterHandler.Delete)

				characters.PUT("/expendFeature/:featureId", r.sheetHandler.ExpendFeature)
				characters.PUT("/gainFeature/:featureId", r.sheetHandler.GainFeature)
				characters.PUT("/gainItem/:itemId", r.sheetHandler.GainItem)
				characters.PUT("/useItem/:itemId", r.sheetHandler.UseItem)
				characters.PUT("/expendSpellSlot", r.sheetHandler.ExpendSpellSlot)
				characters.PUT("/gainSpellSlot", r.sheetHandler.GainSpellSlot)
				characters.PUT("/shortRest", r.sheetHandler.ShortRest)
				characters.POST("/longRest", r.sheetHandler.LongRest)

				characters.GET("/live", r.wsHandler.Live)
			}
		}
	}

	// 404处理
	r.engine.NoRoute(notFoundHandler)
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "unhealthy",
			"message": "database connection failed",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "unhealthy",
			"message": "database ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试和自定义http.Server）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
