package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/auth"
	"github.com/TalgatovAka/shop-api/config"
	productController "github.com/TalgatovAka/shop-api/controllers/product"
	"github.com/TalgatovAka/shop-api/models"
	"github.com/TalgatovAka/shop-api/routes"
	"github.com/TalgatovAka/shop-api/storage"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	ctx := context.Background()

	// Photo storage (optional)
	var photos productController.PhotoStore
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewPhotoStore(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("❌ Photo storage init failed: %v", err)
		}
		photos = store
	} else {
		log.Println("⚠️ MINIO_ENDPOINT not set, product photos disabled")
	}

	// Identity-provider login (optional)
	var verifier auth.TokenVerifier
	if cfg.OIDC.Issuer != "" {
		verifier, err = auth.NewVerifier(ctx, cfg.OIDC)
		if err != nil {
			log.Fatalf("❌ OIDC discovery failed: %v", err)
		}
	} else {
		log.Println("⚠️ OIDC_ISSUER not set, SSO login disabled")
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, cfg, photos, verifier)

	// Start server
	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return db
}
