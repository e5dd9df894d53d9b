package app

import (
	"astro_learn_backend/docs"
	"astro_learn_backend/internal/config"
	"astro_learn_backend/internal/middleware"
	"astro_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/planets", c.planet.GetPlanetMap)
		authGroup.GET("/planets/unlocked", c.planet.GetUnlockedLevels)

		authGroup.GET("/levels/:levelId/exercises", c.exercise.ListByLevel)
		authGroup.GET("/levels/:levelId/ranking", c.progress.GetLevelRanking)

		authGroup.POST("/exercises/:exerciseId/submit", c.progress.SubmitExercise)

		authGroup.GET("/progress", c.progress.GetProgress)
		authGroup.GET("/progress/stats", c.progress.GetUserStats)
		authGroup.GET("/progress/levels/:levelId", c.progress.GetLevelDetail)
		authGroup.GET("/progress/planets/:planetId", c.progress.GetPlanetProgress)

		authGroup.GET("/achievements", c.achievement.GetUserAchievements)
	}
}
