package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/models"
)

// getOrCreateCart materializes the user's cart on first access. The unique
// index on user_id makes this safe under concurrent first requests: the
// loser of the insert race re-reads the winner's row.
func getOrCreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		if ferr := db.Where("user_id = ?", userID).First(&cart).Error; ferr == nil {
			return &cart, nil
		}
		return nil, err
	}
	return &cart, nil
}

func productParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return uint(id), true
}

// POST /cart/add/:id
//
// Creates the cart line at quantity 1 or bumps an existing one. The
// increment runs as a SQL expression inside the transaction so rapid
// double-clicks from multiple tabs cannot lose updates.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID, ok := productParam(c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		quantity, err := addOrIncrementLine(db, userID, product.ID)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent first add; the winner's row exists now, so a
			// second pass lands on the increment branch.
			quantity, err = addOrIncrementLine(db, userID, product.ID)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  fmt.Sprintf("Product %q added to cart", product.Name),
			"quantity": quantity,
		})
	}
}

// addOrIncrementLine creates the cart line at quantity 1 or bumps an
// existing one, returning the resulting quantity.
func addOrIncrementLine(db *gorm.DB, userID string, productID uint) (int, error) {
	var quantity int
	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: productID,
				Quantity:  1,
				AddedAt:   time.Now(),
			}
			if err := tx.Omit("Product").Create(&item).Error; err != nil {
				return err
			}
			quantity = 1
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&item).
			Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.First(&item, item.ID).Error; err != nil {
			return err
		}
		quantity = item.Quantity
		return nil
	})
	return quantity, err
}

// POST /cart/items/:id/:action  (action: increase|inc|decrease|dec)
//
// Targets an existing cart line; unlike AddToCart it never creates one.
// Decreasing past 1 deletes the row; a stored quantity never reaches 0.
func ChangeQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID, ok := productParam(c)
		if !ok {
			return
		}

		action := c.Param("action")
		increase := action == "inc" || action == "increase"
		if !increase && action != "dec" && action != "decrease" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		var quantity int
		err := db.Transaction(func(tx *gorm.DB) error {
			var item models.CartItem
			if err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
				First(&item).Error; err != nil {
				return err
			}

			if increase {
				if err := tx.Model(&item).
					Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
					return err
				}
				if err := tx.First(&item, item.ID).Error; err != nil {
					return err
				}
				quantity = item.Quantity
				return nil
			}

			var derr error
			quantity, derr = decrementLine(tx, &item)
			return derr
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "quantity": quantity})
	}
}

// decrementLine applies a guarded decrement to a cart line. The quantity
// predicate is what enforces "never a stored quantity below 1": a concurrent
// decrease that already brought the row to 1 makes the update match nothing,
// and the line is deleted instead of driven to 0.
func decrementLine(tx *gorm.DB, item *models.CartItem) (int, error) {
	res := tx.Model(&models.CartItem{}).
		Where("id = ? AND quantity > 1", item.ID).
		Update("quantity", gorm.Expr("quantity - ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, tx.Delete(item).Error
	}
	if err := tx.First(item, item.ID).Error; err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

// DELETE /cart/items/:id
//
// Removes the cart line entirely at any quantity. Removing something that
// is not there is a success: the requested end state already holds.
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID, ok := productParam(c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		message := fmt.Sprintf("%s removed from cart", product.Name)

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
			return
		}

		if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, product.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
	}
}

// GET /cart/state
//
// Read-only projection of the cart as product_id → quantity. Anonymous
// callers get an empty mapping, not an error.
func CartState(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := map[string]int{}

		userID := c.GetString("user_id")
		if userID != "" {
			cart, err := getOrCreateCart(db, userID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
			var lines []models.CartItem
			if err := db.Where("cart_id = ?", cart.CartID).Find(&lines).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
			for _, line := range lines {
				items[strconv.FormatUint(uint64(line.ProductID), 10)] = line.Quantity
			}
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /cart
func ViewCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		view, err := LoadCartView(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// LoadCartView assembles the full cart view for a user: lines with product,
// quantity and subtotal, plus a grand total. Totals are computed at read
// time from current prices, never cached from add-time.
func LoadCartView(db *gorm.DB, userID string) (gin.H, error) {
	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	var lines []models.CartItem
	if err := db.Preload("Product").Where("cart_id = ?", cart.CartID).Find(&lines).Error; err != nil {
		return nil, err
	}

	items := make([]gin.H, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		subtotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, gin.H{
			"product":  line.Product,
			"quantity": line.Quantity,
			"subtotal": subtotal,
		})
	}

	return gin.H{"cart_id": cart.CartID, "items": items, "total": total}, nil
}
