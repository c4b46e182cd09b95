package productController

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/models"
)

// DeleteProduct removes a product and everything referencing it: cart lines
// and wishlist memberships go in the same transaction, so affected users'
// snapshots never see a dangling product.
//
// The photo asset is removed best-effort first; a failing asset store must
// not block catalog cleanup.
func DeleteProduct(db *gorm.DB, photos PhotoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if product.Photo != "" && photos != nil {
			if err := photos.Remove(c.Request.Context(), product.Photo); err != nil {
				log.Printf("failed to remove photo %s: %v", product.Photo, err)
			}
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM "+models.WishlistJoinTable+" WHERE product_id = ?",
				product.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if txErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
