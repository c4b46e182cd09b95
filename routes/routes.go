package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/auth"
	"github.com/TalgatovAka/shop-api/config"
	productController "github.com/TalgatovAka/shop-api/controllers/product"
)

// SetupRoutes is the single entry-point that wires up Auth, User, and Admin
// route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, photos productController.PhotoStore, verifier auth.TokenVerifier) {
	// Public auth routes
	SetupAuthRoutes(r, db, cfg, verifier)

	// Storefront routes (public catalog + JWT-protected cart/wishlist/profile)
	SetupUserRoutes(r, db, cfg)

	// Admin routes (JWT + role gate)
	SetupAdminRoutes(r, db, cfg, photos)
}
