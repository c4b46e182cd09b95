package productController

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/models"
)

const releaseDateLayout = "2006-01-02"

// CreateProduct creates a new catalog entry with an optional photo upload.
// Mounted under the admin group, so the role gate has already run.
func CreateProduct(db *gorm.DB, photos PhotoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		manufacturer := c.PostForm("manufacturer")
		priceStr := c.PostForm("price")
		releaseDateStr := c.PostForm("release_date")
		if name == "" || manufacturer == "" || priceStr == "" || releaseDateStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, manufacturer, price, and release_date are required"})
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		releaseDate, err := time.Parse(releaseDateLayout, releaseDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid release_date, expected YYYY-MM-DD"})
			return
		}

		weight := decimal.Zero
		if weightStr := c.PostForm("weight"); weightStr != "" {
			weight, err = decimal.NewFromString(weightStr)
			if err != nil || weight.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weight"})
				return
			}
		}

		// Photo upload (optional)
		var photoKey string
		if file, err := c.FormFile("photo"); err == nil {
			if photos == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
				return
			}
			photoKey, err = uploadPhoto(c, photos, file.Filename)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
				return
			}
		}

		product := models.Product{
			Name:         name,
			Manufacturer: manufacturer,
			Description:  c.PostForm("description"),
			ReleaseDate:  releaseDate,
			Weight:       weight,
			Price:        price,
			Photo:        photoKey,
			CreatedByID:  c.GetString("user_id"),
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// uploadPhoto streams the multipart file to the asset store under a unique
// key and returns that key.
func uploadPhoto(c *gin.Context, photos PhotoStore, filename string) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	base := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	key := fmt.Sprintf("products/%d_%s", time.Now().UnixNano(), base)

	contentType := file.Header.Get("Content-Type")
	if err := photos.Upload(c.Request.Context(), key, src, file.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}
