package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blindys/blindys-backend/internal/hash"
	"github.com/blindys/blindys-backend/internal/models"
)

func seedUser(t *testing.T, db *gorm.DB, first, last, email string) models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("Str0ng!pass")
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    first,
		LastName:     last,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func getCtx(e *echo.Echo, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateUser(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	c, rec := postJSON(t, e, "/users", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "Str0ng!pass",
	})
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "ada@example.com", created.Email)

	// password is hashed before it hits the database and never echoed back
	var stored models.User
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	require.NotEqual(t, "Str0ng!pass", stored.PasswordHash)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "Str0ng!pass"))
	require.NotContains(t, rec.Body.String(), "Str0ng!pass")
	require.NotContains(t, rec.Body.String(), stored.PasswordHash)

	// duplicate email violates the unique index
	c, _ = postJSON(t, e, "/users", map[string]string{
		"firstName": "Ada",
		"lastName":  "Byron",
		"email":     "ada@example.com",
		"password":  "Str0ng!pass",
	})
	err := h.CreateUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestGetUsers(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	seedUser(t, db, "Charlie", "Parker", "charlie@example.com")
	seedUser(t, db, "Ada", "Lovelace", "ada@example.com")
	seedUser(t, db, "Billie", "Holiday", "billie@example.com")

	c, rec := getCtx(e, "/users")
	require.NoError(t, h.GetUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 3)

	// ordered by first name
	require.Equal(t, "Ada", users[0].FirstName)
	require.Equal(t, "Billie", users[1].FirstName)
	require.Equal(t, "Charlie", users[2].FirstName)

	// password hash never leaves the API
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "$2a$")
}

func TestGetUser(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	user := seedUser(t, db, "Ada", "Lovelace", "ada@example.com")

	c, rec := getCtx(e, "/users/"+user.ID)
	c.SetParamNames("id")
	c.SetParamValues(user.ID)
	require.NoError(t, h.GetUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "ada@example.com", got.Email)

	c, _ = getCtx(e, "/users/missing")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	err := h.GetUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestUpdateUser(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	user := seedUser(t, db, "Ada", "Lovelace", "ada@example.com")

	body := `{"firstName":"Ada","lastName":"Byron","email":"ada@example.com","password":"N3w!password"}`
	req := httptest.NewRequest(http.MethodPut, "/users/"+user.ID, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	require.NoError(t, h.UpdateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&updated).Error)
	require.Equal(t, "Byron", updated.LastName)

	// password was re-hashed, not stored raw
	require.NotEqual(t, user.PasswordHash, updated.PasswordHash)
	require.True(t, hash.CheckPassword(updated.PasswordHash, "N3w!password"))
}

func TestDeleteUser(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	e := echo.New()

	user := seedUser(t, db, "Ada", "Lovelace", "ada@example.com")

	req := httptest.NewRequest(http.MethodDelete, "/users/"+user.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	require.NoError(t, h.DeleteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	// deleting again reports not found
	req = httptest.NewRequest(http.MethodDelete, "/users/"+user.ID, nil)
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	err := h.DeleteUser(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}
