package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/config"
	"github.com/TalgatovAka/shop-api/models"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // username or email
	Password   string `json:"password" binding:"required"`
}

// POST /auth/register
func Register(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ? OR LOWER(email) = LOWER(?)", input.Username, input.Email).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hash),
			Provider:     models.ProviderLocal,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		role, err := ApplyRole(db, &user, cfg.Admins)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}

		token, err := IssueJWT(cfg.JWT.Secret, cfg.JWT.TTL, &user, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful",
			"token":   token,
			"user":    user,
			"role":    role,
		})
	}
}

// POST /auth/login
func Login(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// An identifier containing "@" is treated as an email, matched
		// case-insensitively; anything else is a username.
		var user models.User
		var err error
		if strings.Contains(input.Identifier, "@") {
			err = db.Where("LOWER(email) = LOWER(?)", input.Identifier).First(&user).Error
		} else {
			err = db.Where("username = ?", input.Identifier).First(&user).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login/email or password"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login/email or password"})
			return
		}

		role, err := ApplyRole(db, &user, cfg.Admins)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}

		token, err := IssueJWT(cfg.JWT.Secret, cfg.JWT.TTL, &user, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user,
			"role":    role,
		})
	}
}

// POST /auth/logout
//
// Tokens are stateless, so logout is client-side; SSO users additionally get
// the provider end-session URL so the browser can terminate the IdP session.
func Logout(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{"message": "Logged out"}

		userIDVal, exists := c.Get("user_id")
		if exists && cfg.OIDC.LogoutEndpoint != "" {
			var user models.User
			if err := db.First(&user, "id = ?", userIDVal.(string)).Error; err == nil &&
				user.Provider == models.ProviderOIDC {
				logoutURL := cfg.OIDC.LogoutEndpoint + "?post_logout_redirect_uri=" + cfg.OIDC.PostLogoutRedirect
				var req struct {
					IDToken string `json:"id_token"`
				}
				if err := c.ShouldBindJSON(&req); err == nil && req.IDToken != "" {
					logoutURL += "&id_token_hint=" + req.IDToken
				}
				resp["logout_url"] = logoutURL
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
