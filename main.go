package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/PvtMilo/WMS-demo/config"
	"github.com/PvtMilo/WMS-demo/middlewares"
	"github.com/PvtMilo/WMS-demo/routes"
	"github.com/PvtMilo/WMS-demo/service"
	"github.com/PvtMilo/WMS-demo/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	config.ConnectDB()

	if err := config.Migrate(config.DB); err != nil {
		log.Fatalf("❌ Gagal migrate: %v", err)
	}

	if err := config.SeedAdmin(config.DB,
		config.GetEnv("SEED_ADMIN_USERNAME", "admin"),
		config.GetEnv("SEED_ADMIN_PASSWORD", "admin123"),
	); err != nil {
		log.Printf("⚠️  Gagal seed admin: %v", err)
	}

	// override secret dari ENV
	utils.ConfigureJWT(
		config.GetEnv("JWT_SECRET"),
		time.Duration(config.GetEnvInt("JWT_TTL_HOURS", 12))*time.Hour,
	)

	if mode := config.GetEnv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	r := gin.Default()
	r.Use(middlewares.CorsMiddleware(config.GetEnv("CORS_ORIGIN", "*")))

	svc := service.New(config.DB)
	routes.SetupRoutes(r, config.DB, svc, utils.JWTResolver{})

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "🚀 WMS API is running"})
	})

	port := config.GetEnv("PORT", "5510")
	log.Printf("🚀 Listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Server berhenti: %v", err)
	}
}
