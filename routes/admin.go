package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/config"
	adminController "github.com/TalgatovAka/shop-api/controllers/admin"
	productController "github.com/TalgatovAka/shop-api/controllers/product"
	"github.com/TalgatovAka/shop-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Every route requires
// a valid token and the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, photos productController.PhotoStore) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(cfg.JWT.Secret), middleware.RequireAdmin(db))
	{
		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productController.CreateProduct(db, photos))
			productAdmin.PUT("/:id", productController.UpdateProduct(db, photos))
			productAdmin.DELETE("/:id", productController.DeleteProduct(db, photos))
		}

		// ─────────── User & Role Management ───────────
		userAdmin := adminGroup.Group("/users")
		{
			userAdmin.GET("", adminController.ListUsers(db))
			userAdmin.GET("/:user_id/cart", adminController.GetUserCart(db))
			userAdmin.POST("/:user_id/toggle-role", adminController.ToggleAdminRole(db))
		}
	}
}
