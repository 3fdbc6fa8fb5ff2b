package app

import (
	"vocab_drill_backend/docs"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/middleware"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由
	a.registerPublicRoutes(router, c)

	// 2. 练习与会话
	a.registerPracticeRoutes(router, c)

	// 3. 管理员接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}
}

func (a *App) registerPracticeRoutes(router *gin.Engine, c *controllers) {
	practice := router.Group("/api/practice")
	{
		practice.GET("/due", c.practice.GetDueItems)
		practice.GET("/next", c.practice.GetNextQuestion)
		practice.POST("/answers", c.practice.SubmitAnswer)
		practice.GET("/dashboard", c.dashboard.GetDashboard)
	}

	sessions := router.Group("/api/sessions")
	{
		sessions.GET("/:id/attempts", c.session.ListSessionAttempts)
		sessions.GET("/:id/summary", c.session.GetSessionSummary)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.POST("/vocabulary/seed", c.vocabulary.SeedVocabulary)
		admin.GET("/vocabulary", c.vocabulary.ListVocabulary)
	}
}
