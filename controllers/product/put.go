package productController

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/models"
)

// UpdateProduct updates an existing product by ID. Fields are optional;
// omitted ones keep their stored value.
//
// The previous_price rule runs on every update, inside the same transaction
// that writes the new price: it is set to the old price only when the new
// price is strictly lower, and cleared otherwise — including when the price
// did not change at all. That matches the storefront's "was X" badge, which
// reflects only the most recent decrease, not a history.
func UpdateProduct(db *gorm.DB, photos PhotoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&product, id).Error; err != nil {
				return err
			}
			oldPrice := product.Price
			oldPhoto := product.Photo

			if v := c.PostForm("name"); v != "" {
				product.Name = v
			}
			if v := c.PostForm("manufacturer"); v != "" {
				product.Manufacturer = v
			}
			if v := c.PostForm("description"); v != "" {
				product.Description = v
			}
			if v := c.PostForm("release_date"); v != "" {
				releaseDate, err := time.Parse(releaseDateLayout, v)
				if err != nil {
					return errValidation("Invalid release_date, expected YYYY-MM-DD")
				}
				product.ReleaseDate = releaseDate
			}
			if v := c.PostForm("weight"); v != "" {
				weight, err := decimal.NewFromString(v)
				if err != nil || weight.IsNegative() {
					return errValidation("Invalid weight")
				}
				product.Weight = weight
			}
			if v := c.PostForm("price"); v != "" {
				price, err := decimal.NewFromString(v)
				if err != nil || price.IsNegative() {
					return errValidation("Invalid price")
				}
				product.Price = price
			}

			if product.Price.LessThan(oldPrice) {
				prev := oldPrice
				product.PreviousPrice = &prev
			} else {
				product.PreviousPrice = nil
			}

			if file, ferr := c.FormFile("photo"); ferr == nil {
				if photos == nil {
					return errValidation("Photo storage is not configured")
				}
				key, err := uploadPhoto(c, photos, file.Filename)
				if err != nil {
					return err
				}
				product.Photo = key
				if oldPhoto != "" {
					// Replacing a photo leaves the old asset behind on
					// failure; never the other way around.
					if err := photos.Remove(c.Request.Context(), oldPhoto); err != nil {
						log.Printf("failed to remove old photo %s: %v", oldPhoto, err)
					}
				}
			}

			return tx.Save(&product).Error
		})

		switch {
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case isValidation(txErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": txErr.Error()})
		case txErr != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		default:
			c.JSON(http.StatusOK, product)
		}
	}
}

type validationError string

func (e validationError) Error() string { return string(e) }

func errValidation(msg string) error { return validationError(msg) }

func isValidation(err error) bool {
	_, ok := err.(validationError)
	return ok
}
