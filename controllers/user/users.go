package userControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/auth"
	"github.com/TalgatovAka/shop-api/models"
)

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		role, err := auth.RoleOf(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "role": role})
	}
}

type profileInput struct {
	Action          string `json:"action" binding:"required"`
	NewEmail        string `json:"new_email"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// POST /user/profile
//
// Action-dispatched profile management: change_email, change_name,
// change_lastname, change_password.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input profileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		switch input.Action {
		case "change_email":
			changeEmail(c, db, &user, input)
		case "change_name":
			updateField(c, db, &user, "first_name", strings.TrimSpace(input.FirstName), "Name updated")
		case "change_lastname":
			updateField(c, db, &user, "last_name", strings.TrimSpace(input.LastName), "Last name updated")
		case "change_password":
			changePassword(c, db, &user, input)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		}
	}
}

// Changing email requires the current password; the new address must be
// unused by anyone else.
func changeEmail(c *gin.Context, db *gorm.DB, user *models.User, input profileInput) {
	newEmail := strings.TrimSpace(input.NewEmail)
	if newEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email must not be empty"})
		return
	}
	if strings.EqualFold(newEmail, user.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New email matches the old one"})
		return
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", newEmail, user.ID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already in use"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.PasswordConfirm)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password"})
		return
	}

	updateField(c, db, user, "email", newEmail, "Email updated")
}

func changePassword(c *gin.Context, db *gorm.DB, user *models.User, input profileInput) {
	newPassword := strings.TrimSpace(input.NewPassword)
	switch {
	case newPassword == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must not be empty"})
		return
	case newPassword != strings.TrimSpace(input.ConfirmPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	case len(newPassword) < 6:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	updateField(c, db, user, "password_hash", string(hash), "Password updated")
}

func updateField(c *gin.Context, db *gorm.DB, user *models.User, column, value, message string) {
	if err := db.Model(user).Update(column, value).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
