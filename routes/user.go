package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/config"
	cartControllers "github.com/TalgatovAka/shop-api/controllers/cart"
	productController "github.com/TalgatovAka/shop-api/controllers/product"
	statsController "github.com/TalgatovAka/shop-api/controllers/stats"
	userControllers "github.com/TalgatovAka/shop-api/controllers/user"
	wishlistControllers "github.com/TalgatovAka/shop-api/controllers/wishlist"
	"github.com/TalgatovAka/shop-api/middleware"
)

// SetupUserRoutes registers the storefront endpoints: the public catalog,
// soft-auth snapshot endpoints, and the JWT-protected cart/wishlist/profile
// groups.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// ──────────────── Browse Products (public) ────────────────
	r.GET("/products", productController.GetProducts(db))
	r.GET("/products/:id", productController.GetProductByID(db))

	// ──────────────── Stats (public dashboard data) ────────────────
	r.GET("/stats/series", statsController.Series())
	r.GET("/stats/cart-products", statsController.CartProducts(db))

	// ──────────────── Snapshots (anonymous-friendly) ────────────────
	soft := r.Group("/", middleware.SoftValidateToken(cfg.JWT.Secret))
	{
		soft.GET("/cart/state", cartControllers.CartState(db))
		soft.GET("/wishlist/state", wishlistControllers.WishlistState(db))
	}

	// ──────────────── Authenticated storefront ────────────────
	userGroup := r.Group("/", middleware.ValidateToken(cfg.JWT.Secret))
	{
		// Shopping cart
		userGroup.GET("/cart", cartControllers.ViewCart(db))
		userGroup.POST("/cart/add/:id", cartControllers.AddToCart(db))
		userGroup.POST("/cart/items/:id/:action", cartControllers.ChangeQuantity(db))
		userGroup.DELETE("/cart/items/:id", cartControllers.RemoveFromCart(db))

		// Wishlist
		userGroup.GET("/wishlist", wishlistControllers.ViewWishlist(db))
		userGroup.POST("/wishlist/toggle/:id", wishlistControllers.Toggle(db))

		// Profile
		userGroup.GET("/user", userControllers.GetUser(db))
		userGroup.POST("/user/profile", userControllers.UpdateProfile(db))
	}
}
