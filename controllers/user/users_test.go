package userControllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/models"
	"github.com/TalgatovAka/shop-api/testutil"
)

func newRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
	})
	r.GET("/user", GetUser(db))
	r.POST("/user/profile", UpdateProfile(db))
	return r
}

func seedUserWithPassword(t *testing.T, db *gorm.DB, password string) *models.User {
	t.Helper()
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("password_hash", string(hash)).Error)
	user.PasswordHash = string(hash)
	return user
}

func postProfile(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/user/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetUser(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	r := newRouter(db, user.ID)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"alice"`)
	require.NotContains(t, w.Body.String(), "password")
}

func TestChangeEmailRequiresPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUserWithPassword(t, db, "secret1")
	r := newRouter(db, user.ID)

	w := postProfile(t, r,
		`{"action":"change_email","new_email":"new@example.com","password_confirm":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var unchanged models.User
	require.NoError(t, db.First(&unchanged, "id = ?", user.ID).Error)
	require.Equal(t, "alice@example.com", unchanged.Email)
}

func TestChangeEmail(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUserWithPassword(t, db, "secret1")
	r := newRouter(db, user.ID)

	w := postProfile(t, r,
		`{"action":"change_email","new_email":"new@example.com","password_confirm":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.Equal(t, "new@example.com", updated.Email)
}

func TestChangeEmailRejectsTakenAddress(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedUser(t, db, "bob", "taken@example.com", models.RoleUser)
	user := seedUserWithPassword(t, db, "secret1")
	r := newRouter(db, user.ID)

	w := postProfile(t, r,
		`{"action":"change_email","new_email":"taken@example.com","password_confirm":"secret1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeName(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	r := newRouter(db, user.ID)

	w := postProfile(t, r, `{"action":"change_name","first_name":"Aliya"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.Equal(t, "Aliya", updated.FirstName)
}

func TestChangePasswordValidation(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUserWithPassword(t, db, "secret1")
	r := newRouter(db, user.ID)

	w := postProfile(t, r,
		`{"action":"change_password","new_password":"abc","confirm_password":"abc"}`)
	require.Equal(t, http.StatusBadRequest, w.Code) // too short

	w = postProfile(t, r,
		`{"action":"change_password","new_password":"longenough","confirm_password":"different"}`)
	require.Equal(t, http.StatusBadRequest, w.Code) // mismatch

	w = postProfile(t, r,
		`{"action":"change_password","new_password":"longenough","confirm_password":"longenough"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(updated.PasswordHash), []byte("longenough")))
}

func TestUnknownAction(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "alice", "alice@example.com", models.RoleUser)
	r := newRouter(db, user.ID)

	w := postProfile(t, r, `{"action":"become_admin"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
