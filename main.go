package main

import (
	"fmt"
	"log"
	"os"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/routes"
	"invoicepro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.ServiceTemplate{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Estimate{},
		&models.EstimateItem{},
		&models.EmailLog{},
	)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	notifier := services.NewNotificationService(config.DB)
	notifier.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
