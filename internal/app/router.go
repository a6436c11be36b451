package app

import (
	"tutalearn_backend/docs"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/middleware"
	"tutalearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录，携带令牌时按用户偏好语言返回)
	a.registerPublicRoutes(router, c, cfg)

	// 2. WhatsApp 回调
	a.registerWhatsAppRoutes(router, c)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(a.services.profile))
	{
		a.registerStudentRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(cfg))
	{
		public.GET("/health", c.health.HealthCheck)

		public.GET("/subjects", c.content.ListSubjects)
		public.GET("/lessons", c.content.ListLessons)
		public.GET("/lessons/:id", c.content.GetLesson)
		public.GET("/lessons/:id/adapted", c.content.GetAdaptedLesson)

		public.GET("/tutor/example", c.tutor.LocalExample)
	}
}

func (a *App) registerWhatsAppRoutes(router *gin.Engine, c *controllers) {
	whatsapp := router.Group("/api/whatsapp")
	{
		whatsapp.GET("/link", c.whatsapp.ChatLink)
		whatsapp.POST("/simulate", c.whatsapp.Simulate)
		whatsapp.GET("/webhook", c.whatsapp.VerifyWebhook)
		whatsapp.POST("/webhook", c.whatsapp.ReceiveWebhook)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/lessons/generate", c.content.GenerateLesson)

	group.GET("/progress", c.progress.GetProgress)
	group.PUT("/progress/:lessonId", c.progress.UpsertProgress)
	group.GET("/stats", c.progress.GetStats)

	group.POST("/analytics/events", c.analytics.RecordEvent)

	group.POST("/tutor/ask", c.tutor.Ask)
	group.GET("/recommendations", c.tutor.Recommend)

	group.GET("/profile", c.profile.GetProfile)
	group.PUT("/profile", c.profile.UpdateProfile)
	group.POST("/profile/avatar", c.profile.UploadAvatar)
}
