package app

import (
	"sales_coach_backend/docs"
	"sales_coach_backend/internal/config"
	"sales_coach_backend/internal/middleware"
	"sales_coach_backend/internal/model"
	"sales_coach_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/rubric", c.grade.GetRubric)

		// 评分记录：查询对所有角色开放，按调用方权限在服务层过滤
		authGroup.GET("/grades", c.grade.ListGrades)
		authGroup.GET("/grades/:id", c.grade.GetGrade)

		// 指标快照
		authGroup.GET("/metrics", c.metrics.GetMetrics)

		// 评分提交与坐席名册限定给质检和管理员
		grading := authGroup.Group("")
		grading.Use(middleware.RoleMiddleware(model.Coach))
		{
			grading.POST("/grades", c.grade.SubmitGrade)
			grading.GET("/agents", c.grade.ListAgents)
			grading.GET("/agents/:id/rollup", c.metrics.GetAgentRollup)
			grading.GET("/coaches", c.user.GetCoaches)
		}
	}

	// 3. 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/users", c.user.GetUsers)
		adminGroup.GET("/users/:id", c.user.GetUser)
		adminGroup.DELETE("/grades/:id", c.grade.DeleteGrade)
	}
}
