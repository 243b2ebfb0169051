package app

import (
	"placement_prep_backend/docs"
	"placement_prep_backend/internal/config"
	"placement_prep_backend/internal/middleware"
	"placement_prep_backend/internal/model"
	"placement_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerProblemRoutes(authGroup, c)
		a.registerProgressRoutes(authGroup, c)
		a.registerAchievementRoutes(authGroup, c)
		a.registerNotificationRoutes(authGroup, c)
		authGroup.GET("/me", c.auth.Me)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
	router.GET("/health", c.health.HealthCheck)
}

func (a *App) registerProblemRoutes(rg *gin.RouterGroup, c *controllers) {
	problems := rg.Group("/problems")
	{
		problems.GET("", c.problem.List)
		problems.POST("", middleware.RoleMiddleware(model.Admin, model.Mentor), c.problem.Create)
	}
}

func (a *App) registerProgressRoutes(rg *gin.RouterGroup, c *controllers) {
	progress := rg.Group("/progress")
	{
		progress.GET("", c.progress.GetProgress)
		progress.POST("/attempts", c.progress.RecordAttempt)
		progress.POST("/solves", c.progress.RecordSolve)
		progress.POST("/interviews", c.progress.RecordInterview)
		progress.POST("/study-time", c.progress.RecordStudyTime)
		progress.POST("/contests", c.progress.RecordContest)
		progress.POST("/milestones", c.progress.RecordMilestone)
	}
}

func (a *App) registerAchievementRoutes(rg *gin.RouterGroup, c *controllers) {
	achievements := rg.Group("/achievements")
	{
		achievements.GET("", c.achievement.GetAchievements)
		achievements.POST("/reconcile", c.achievement.Reconcile)
		achievements.GET("/leaderboard", c.achievement.GetLeaderboard)
	}
}

func (a *App) registerNotificationRoutes(rg *gin.RouterGroup, c *controllers) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", c.notification.List)
		notifications.GET("/unread-count", c.notification.UnreadCount)
		notifications.PATCH("/:id/read", c.notification.MarkRead)
		notifications.POST("/read-all", c.notification.MarkAllRead)
		notifications.DELETE("/:id", c.notification.Delete)
		notifications.DELETE("", c.notification.Clear)
		notifications.GET("/ws", c.notification.ServeWS)
	}
}
