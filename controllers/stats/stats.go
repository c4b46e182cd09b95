package statsController

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /stats/series
//
// Deterministic 14-day demo series for the dashboard chart; placeholder
// until real traffic metrics land.
func Series() gin.HandlerFunc {
	return func(c *gin.Context) {
		today := time.Now()
		items := make([]gin.H, 0, 14)
		for i := 13; i >= 0; i-- {
			d := today.AddDate(0, 0, -i)
			value := 900 + ((d.Day()*37)%300 + i*3)
			items = append(items, gin.H{
				"date":  d.Format("02.01.2006"),
				"value": value,
			})
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /stats/cart-products
//
// Top products by total quantity across all carts, for the pie chart.
func CartProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []struct {
			Name  string
			Value int
		}
		err := db.Table("cart_items").
			Select("products.name AS name, SUM(cart_items.quantity) AS value").
			Joins("JOIN products ON products.id = cart_items.product_id").
			Group("products.name").
			Order("value DESC").
			Limit(10).
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}

		items := make([]gin.H, 0, len(rows))
		for _, row := range rows {
			items = append(items, gin.H{"name": row.Name, "value": row.Value})
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
