package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitroom/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(store *fakeUserStore) (*gin.Engine, *services.AuthService) {
	auth := services.NewAuthService("test-secret", time.Hour)
	ac := NewAuthController(store, auth)
	r := gin.New()
	r.POST("/register", ac.Register)
	r.POST("/login", ac.Login)
	return r, auth
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", path, strings.NewReader(body)))
	return w
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	r, auth := authRouter(newFakeUserStore())

	w := postJSON(r, "/register", `{"name":"Ken","email":"ken@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/login", `{"email":"ken@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	userID, err := auth.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	// Session cookie set alongside the body token.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	r, _ := authRouter(newFakeUserStore())

	w := postJSON(r, "/register", `{"email":"ken@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r, _ := authRouter(newFakeUserStore())

	w := postJSON(r, "/register", `{"name":"Ken","email":"ken@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/register", `{"name":"Other","email":"ken@example.com","password":"pass"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	r, _ := authRouter(newFakeUserStore())

	w := postJSON(r, "/register", `{"name":"Ken","email":"ken@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/login", `{"email":"ken@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/login", `{"email":"nobody@example.com","password":"hunter2"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
