package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/auth"
	cartControllers "github.com/TalgatovAka/shop-api/controllers/cart"
	"github.com/TalgatovAka/shop-api/models"
)

// GET /admin/users
//
// Lists every user with their role, newest first. Identities created
// out-of-band (e.g. provisioned by the identity provider) may lack a
// profile; RoleOf creates it lazily, so the listing is self-healing.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at desc").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		out := make([]gin.H, 0, len(users))
		for i := range users {
			role, err := auth.RoleOf(db, users[i].ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve roles"})
				return
			}
			out = append(out, gin.H{
				"id":         users[i].ID,
				"username":   users[i].Username,
				"email":      users[i].Email,
				"role":       role,
				"created_at": users[i].CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}

// GET /admin/users/:user_id/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		view, err := cartControllers.LoadCartView(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		view["viewed_user"] = gin.H{"id": user.ID, "username": user.Username, "email": user.Email}

		c.JSON(http.StatusOK, view)
	}
}

// POST /admin/users/:user_id/toggle-role
//
// Flips the target between admin and user. An admin can never change their
// own role through this path, which keeps at least one working admin.
func ToggleAdminRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetString("user_id")
		targetID := c.Param("user_id")

		if targetID == actorID {
			c.JSON(http.StatusConflict, gin.H{"error": "You cannot change your own role"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		role, err := auth.RoleOf(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}

		newRole := models.RoleAdmin
		message := user.Username + " is now an administrator"
		if role == models.RoleAdmin {
			newRole = models.RoleUser
			message = user.Username + " is no longer an administrator"
		}

		if err := db.Model(&models.Profile{}).
			Where("user_id = ?", user.ID).
			Update("role", newRole).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": message, "role": newRole})
	}
}
