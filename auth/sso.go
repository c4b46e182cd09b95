package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/config"
	"github.com/TalgatovAka/shop-api/models"
)

// TokenVerifier validates a raw OIDC id_token. *oidc.IDTokenVerifier
// satisfies it; tests inject a stub.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// NewVerifier builds a verifier from the provider's discovery document.
func NewVerifier(ctx context.Context, cfg config.OIDC) (TokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	return provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}), nil
}

type ssoClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
}

// POST /auth/sso
//
// The client completes the code flow against the identity provider and posts
// the resulting id_token; the server verifies it, upserts the user from its
// claims and answers with a local JWT.
func SSOLogin(db *gorm.DB, verifier TokenVerifier, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SSO login is not configured"})
			return
		}

		var req struct {
			IDToken string `json:"id_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		idToken, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
			return
		}

		var claims ssoClaims
		if err := idToken.Claims(&claims); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		if claims.PreferredUsername == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ID token is missing preferred_username"})
			return
		}

		user, err := upsertSSOUser(db, claims)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		role, err := ApplyRole(db, user, cfg.Admins)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}

		token, err := IssueJWT(cfg.JWT.Secret, cfg.JWT.TTL, user, role)
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

// upsertSSOUser fetches or creates the user for an identity-provider login.
// Provider claims win on every login, mirroring how the IdP stays the source
// of truth for names and email.
func upsertSSOUser(db *gorm.DB, claims ssoClaims) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", claims.PreferredUsername).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:        uuid.NewString(),
			Username:  claims.PreferredUsername,
			Email:     claims.Email,
			FirstName: claims.GivenName,
			LastName:  claims.FamilyName,
			Provider:  models.ProviderOIDC,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"email":      claims.Email,
		"first_name": claims.GivenName,
		"last_name":  claims.FamilyName,
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.Email = claims.Email
	user.FirstName = claims.GivenName
	user.LastName = claims.FamilyName
	return &user, nil
}
