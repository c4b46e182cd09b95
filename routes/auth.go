package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/auth"
	"github.com/TalgatovAka/shop-api/config"
	"github.com/TalgatovAka/shop-api/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, verifier auth.TokenVerifier) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db, cfg))
		authGroup.POST("/login", auth.Login(db, cfg))

		// Identity-provider login (id_token exchange)
		authGroup.POST("/sso", auth.SSOLogin(db, verifier, cfg))

		authGroup.POST("/logout", middleware.ValidateToken(cfg.JWT.Secret), auth.Logout(db, cfg))
	}
}
