package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TalgatovAka/shop-api/models"
)

// IssueJWT generates a signed token carrying the principal's identity and
// the role resolved at login time.
func IssueJWT(secret string, ttl time.Duration, user *models.User, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
