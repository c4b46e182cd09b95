package productController

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/middleware"
	"github.com/TalgatovAka/shop-api/models"
	"github.com/TalgatovAka/shop-api/testutil"
)

// failingPhotos always errors; used to prove photo-asset failures never
// block catalog operations.
type failingPhotos struct{}

func (failingPhotos) Upload(context.Context, string, io.Reader, int64, string) error {
	return errors.New("storage down")
}

func (failingPhotos) Remove(context.Context, string) error {
	return errors.New("storage down")
}

func newRouter(db *gorm.DB, photos PhotoStore, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
	})

	r.GET("/products", GetProducts(db))
	r.GET("/products/:id", GetProductByID(db))

	admin := r.Group("/admin", middleware.RequireAdmin(db))
	admin.POST("/products", CreateProduct(db, photos))
	admin.PUT("/products/:id", UpdateProduct(db, photos))
	admin.DELETE("/products/:id", DeleteProduct(db, photos))
	return r
}

func postForm(t *testing.T, r *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	product := models.Product{
		Name:         name,
		Manufacturer: "Acme",
		Price:        decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func productFields(name, price string) url.Values {
	return url.Values{
		"name":         {name},
		"manufacturer": {"Acme"},
		"price":        {price},
		"release_date": {"2024-03-01"},
		"weight":       {"1.25"},
	}
}

type productResponse struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	PreviousPrice *decimal.Decimal `json:"previous_price"`
	CreatedByID   string           `json:"created_by"`
}

func TestCreateProductAsAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	r := newRouter(db, nil, admin.ID)

	w := postForm(t, r, http.MethodPost, "/admin/products", productFields("Keyboard", "49.90"))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp productResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, admin.ID, resp.CreatedByID)
	require.Nil(t, resp.PreviousPrice)
}

func TestCreateProductForbiddenForNonAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	r := newRouter(db, nil, user.ID)

	w := postForm(t, r, http.MethodPost, "/admin/products", productFields("Keyboard", "49.90"))
	require.Equal(t, http.StatusForbidden, w.Code)

	// Rejected operations leave no state behind.
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	r := newRouter(db, nil, admin.ID)

	w := postForm(t, r, http.MethodPost, "/admin/products", productFields("Keyboard", "-1"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProductPriceDropRule(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	product := seedProduct(t, db, "Keyboard", "100")
	r := newRouter(db, nil, admin.ID)

	update := func(price string) productResponse {
		w := postForm(t, r, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID),
			url.Values{"price": {price}})
		require.Equal(t, http.StatusOK, w.Code)
		var resp productResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	// 100 -> 80: previous_price records the old price
	resp := update("80")
	require.NotNil(t, resp.PreviousPrice)
	require.True(t, resp.PreviousPrice.Equal(decimal.RequireFromString("100")))

	// 80 -> 90: increase clears it
	resp = update("90")
	require.Nil(t, resp.PreviousPrice)

	// 90 -> 85 -> 85: an unchanged price is not a decrease, so it clears
	resp = update("85")
	require.NotNil(t, resp.PreviousPrice)
	resp = update("85")
	require.Nil(t, resp.PreviousPrice)
}

func TestUpdateWithoutPriceClearsPreviousPrice(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	product := seedProduct(t, db, "Keyboard", "100")
	r := newRouter(db, nil, admin.ID)

	w := postForm(t, r, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID),
		url.Values{"price": {"80"}})
	require.Equal(t, http.StatusOK, w.Code)

	// Editing only the description recomputes the rule against an unchanged
	// price, which nulls the badge.
	w = postForm(t, r, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID),
		url.Values{"description": {"Now with RGB"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp productResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Nil(t, resp.PreviousPrice)
	require.True(t, resp.Price.Equal(decimal.RequireFromString("80")))
}

func TestUpdateProductNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	r := newRouter(db, nil, admin.ID)

	w := postForm(t, r, http.MethodPut, "/admin/products/9999", url.Values{"price": {"10"}})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProductForbiddenForNonAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	product := seedProduct(t, db, "Keyboard", "100")
	r := newRouter(db, nil, user.ID)

	w := postForm(t, r, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID),
		url.Values{"price": {"80"}})
	require.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.Product
	require.NoError(t, db.First(&unchanged, product.ID).Error)
	require.True(t, unchanged.Price.Equal(decimal.RequireFromString("100")))
	require.Nil(t, unchanged.PreviousPrice)
}

func TestDeleteProductCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	product := seedProduct(t, db, "Keyboard", "49.90")
	r := newRouter(db, nil, admin.ID)

	// Line in a cart and a wishlist membership both reference the product.
	cart := models.Cart{UserID: user.ID}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Omit("Product").Create(&models.CartItem{
		CartID: cart.CartID, ProductID: product.ID, Quantity: 2,
	}).Error)
	wishlist := models.Wishlist{UserID: user.ID}
	require.NoError(t, db.Create(&wishlist).Error)
	require.NoError(t, db.Model(&wishlist).Association("Products").Append(product))

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var items, memberships, products int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("product_id = ?", product.ID).Count(&items).Error)
	require.NoError(t, db.Table(models.WishlistJoinTable).
		Where("product_id = ?", product.ID).Count(&memberships).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.EqualValues(t, 0, items)
	require.EqualValues(t, 0, memberships)
	require.EqualValues(t, 0, products)
}

func TestDeleteProductSwallowsPhotoErrors(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.SeedUser(t, db, "root", "root@example.com", models.RoleAdmin)
	product := models.Product{
		Name:         "Keyboard",
		Manufacturer: "Acme",
		Price:        decimal.RequireFromString("49.90"),
		Photo:        "products/1_keyboard.jpg",
	}
	require.NoError(t, db.Create(&product).Error)
	r := newRouter(db, failingPhotos{}, admin.ID)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestGetProductsSearchAndSort(t *testing.T) {
	db := testutil.OpenDB(t)
	seedProduct(t, db, "Mechanical Keyboard", "120")
	seedProduct(t, db, "Office Keyboard", "30")
	seedProduct(t, db, "Mouse", "20")
	r := newRouter(db, nil, "")

	get := func(query string) []productResponse {
		req := httptest.NewRequest(http.MethodGet, "/products"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Products []productResponse `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Products
	}

	found := get("?search=keyboard")
	require.Len(t, found, 2)

	cheapFirst := get("?price_filter=cheap")
	require.Len(t, cheapFirst, 3)
	require.Equal(t, "Mouse", cheapFirst[0].Name)

	expensiveFirst := get("?price_filter=expensive")
	require.Equal(t, "Mechanical Keyboard", expensiveFirst[0].Name)
}

func TestGetProductByIDNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newRouter(db, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/products/9999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
