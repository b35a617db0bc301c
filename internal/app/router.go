package app

import (
	"college_chatbot_backend/docs"
	"college_chatbot_backend/internal/controller"
	"college_chatbot_backend/internal/middleware"
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. pages and assets
	a.registerPages(router, c)

	// 2. public API
	a.registerPublicRoutes(router, c)

	// 3. signed-in users
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/me", c.auth.Me)
		authGroup.GET("/admin/ai_status", c.admin.AIStatus)
	}

	// 4. admin
	a.registerAdminRoutes(router, c)
}

func (a *App) registerPages(router *gin.Engine, c *controllers) {
	for path, file := range controller.Pages {
		router.GET(path, c.page.Page(file))
	}
	router.GET("/admin", c.page.Admin)
	router.Static("/assets", a.Config.Server.AssetsDir)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.POST("/query", c.query.Query)

		public.GET("/logs", c.log.ListLogs)
		public.POST("/logs", c.log.AppendLog)

		public.GET("/history", c.log.GetHistory)
		public.POST("/history", c.log.AppendHistory)
		public.DELETE("/history", c.log.DeleteHistory)

		public.GET("/college_info", c.info.CollegeInfo)
		public.GET("/status", c.info.Status)
		public.GET("/class_strengths", c.info.ClassStrengths)
		public.GET("/offline_faq", c.info.OfflineFAQ)
		public.GET("/reports/class_strengths", c.info.ClassStrengthsReport)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	router.DELETE("/api/logs", middleware.AuthMiddleware(a.services.auth), middleware.RoleMiddleware(model.Admin), c.log.ClearLogs)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.services.auth), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/admin_faqs", c.admin.ListFAQs)
		admin.POST("/admin_faqs", c.admin.CreateFAQ)
		admin.DELETE("/admin_faqs", c.admin.DeleteFAQ)

		admin.GET("/unanswered", c.admin.ListUnanswered)
		admin.POST("/answer_unanswered", c.admin.AnswerUnanswered)

		admin.GET("/data", c.admin.GetData)
		admin.POST("/data", c.admin.PostData)

		admin.GET("/history", c.log.AdminHistory)
		admin.POST("/reply", c.log.Reply)
		admin.POST("/delete_log", c.log.DeleteLog)

		admin.GET("/students", c.admin.ListStudents)
		admin.POST("/update_student", c.admin.UpdateStudent)
		admin.POST("/delete_student", c.admin.DeleteStudent)
		admin.POST("/migrate_names", c.admin.MigrateNames)
		admin.GET("/logins", c.admin.RecentLogins)

		admin.POST("/toggle_ai", c.admin.ToggleAI)

		admin.GET("/upload", c.admin.ListFiles)
		admin.POST("/upload", c.admin.Upload)
	}
}
