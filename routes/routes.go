package routes

import (
	"invoicepro-backend/config"
	"invoicepro-backend/controllers"
	"invoicepro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://app.invoicepro.digital",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin == "https://app.invoicepro.digital" ||
				origin == "http://localhost:3000"
		},
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Service template routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.POST("/resolve", controllers.ResolveService)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
			invoices.POST("/:id/send", controllers.SendInvoice)
		}

		// Estimate routes
		estimates := api.Group("/estimates")
		{
			estimates.POST("", controllers.CreateEstimate)
			estimates.GET("", controllers.GetEstimates)
			estimates.GET("/:id", controllers.GetEstimate)
			estimates.PUT("/:id", controllers.UpdateEstimate)
			estimates.DELETE("/:id", controllers.DeleteEstimate)
			estimates.POST("/:id/convert", controllers.ConvertEstimate)
		}

		// Voice invoice parsing
		api.POST("/voice/parse", controllers.ParseVoice)

		// Chatbot action dispatch
		api.POST("/chatbot/action", controllers.HandleChatbotAction)

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := auth.Group("/profile", utils.AuthMiddleware())
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-profile", controllers.UpdateProfile)
			profile.PUT("/update-invoice-settings", controllers.UpdateInvoiceSettings)
			profile.PUT("/update-notifications", controllers.UpdateNotifications)
		}
	}

	return r
}
