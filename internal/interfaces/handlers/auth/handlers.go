package auth

import (
	"context"
	"encoding/json"
	"errors"

	authsvc "autovia-backend/internal/application/auth"
	"autovia-backend/internal/middleware"
	"autovia-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers implements the shared-admin-credential gate.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if err := h.Service.Login(body.Email, body.Password); err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), 400, nil)
		case errors.Is(err, authsvc.ErrNotConfigured):
			return response.Error(c, err.Error(), 500, nil)
		default:
			return response.Error(c, err.Error(), 401, nil)
		}
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionAdmin(c, middleware.SessionAdmin{Email: body.Email})
	c.Cookie(middleware.SessionCookie(sid, h.Config))
	return response.Success(c, "Logged in successfully", fiber.Map{"email": body.Email}, nil)
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	email, err := authsvc.Verify(middleware.GetAdmin(c))
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}
	return response.Success(c, "Authenticated", fiber.Map{"email": email}, nil)
}

// DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sid := middleware.GetSessionID(c); sid != "" && h.Rdb != nil {
		h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sid)
	}
	middleware.ClearSessionAdmin(c)
	c.Locals("session_id", "")
	c.ClearCookie(middleware.SessionCookieName)
	return response.Success(c, "Logged out successfully", nil, nil)
}
