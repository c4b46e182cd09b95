package wishlistControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/models"
)

// getOrCreateWishlist mirrors the cart's race-free first-access pattern.
func getOrCreateWishlist(db *gorm.DB, userID string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := db.Where(models.Wishlist{UserID: userID}).FirstOrCreate(&wishlist).Error
	if err != nil {
		if ferr := db.Where("user_id = ?", userID).First(&wishlist).Error; ferr == nil {
			return &wishlist, nil
		}
		return nil, err
	}
	return &wishlist, nil
}

// POST /wishlist/toggle/:id
//
// Membership toggle: present → removed, absent → added. Two consecutive
// calls always restore the original state.
func Toggle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		wishlist, err := getOrCreateWishlist(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		var count int64
		if err := db.Table(models.WishlistJoinTable).
			Where("wishlist_id = ? AND product_id = ?", wishlist.ID, product.ID).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		var inWishlist bool
		var message string
		if count > 0 {
			if err := db.Model(wishlist).Association("Products").Delete(&product); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
				return
			}
			inWishlist = false
			message = "Product removed from wishlist"
		} else {
			if err := db.Model(wishlist).Association("Products").Append(&product); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
				return
			}
			inWishlist = true
			message = "Product added to wishlist"
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"in_wishlist": inWishlist,
			"message":     message,
		})
	}
}

// GET /wishlist/state
//
// Snapshot of favorited product IDs; empty list for anonymous callers.
func WishlistState(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := make([]uint, 0)

		userID := c.GetString("user_id")
		if userID != "" {
			wishlist, err := getOrCreateWishlist(db, userID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
				return
			}
			if err := db.Table(models.WishlistJoinTable).
				Where("wishlist_id = ?", wishlist.ID).
				Pluck("product_id", &ids).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"wishlist_ids": ids})
	}
}

// GET /wishlist
func ViewWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		wishlist, err := getOrCreateWishlist(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		products := make([]models.Product, 0)
		if err := db.Model(wishlist).Association("Products").Find(&products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}
