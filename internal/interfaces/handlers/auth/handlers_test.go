package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "autovia-backend/internal/application/auth"
	"autovia-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthTest(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)
	h := &Handlers{
		Service: &authsvc.Service{AdminEmail: "admin@autovia.mx", AdminPasswordHash: string(hash)},
		Rdb:     rdb,
		Config:  middleware.SessionConfig{},
	}

	app := fiber.New()
	app.Use(middleware.SessionWithClient(rdb))
	app.Post("/login", h.Login)
	app.Get("/me", h.Me)
	app.Delete("/logout", h.Logout)
	return app
}

func login(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	app := setupAuthTest(t)
	resp := login(t, app, "admin@autovia.mx", "hunter2!")
	assert.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, sessionCookie(resp))
}

func TestLogin_WrongPassword(t *testing.T) {
	app := setupAuthTest(t)
	resp := login(t, app, "admin@autovia.mx", "wrong")
	assert.Equal(t, 401, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))
}

func TestLogin_MissingFields(t *testing.T) {
	app := setupAuthTest(t)
	resp := login(t, app, "", "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestMe_WithoutSession(t *testing.T) {
	app := setupAuthTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMe_WithSession(t *testing.T) {
	app := setupAuthTest(t)
	cookie := sessionCookie(login(t, app, "admin@autovia.mx", "hunter2!"))
	require.NotNil(t, cookie)

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "admin@autovia.mx", data["email"])
}

func TestLogout_EndsSession(t *testing.T) {
	app := setupAuthTest(t)
	cookie := sessionCookie(login(t, app, "admin@autovia.mx", "hunter2!"))
	require.NotNil(t, cookie)

	req := httptest.NewRequest("DELETE", "/logout", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
