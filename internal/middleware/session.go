package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionConfig for the Redis-backed admin session.
type SessionConfig struct {
	Secret            string
	RedisURL          string
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName  = "autovia.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour
)

// SessionAdmin is the shape stored in session under "admin".
type SessionAdmin struct {
	Email string `json:"email"`
}

// Session returns a Fiber middleware that loads/saves the session from Redis.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)
	return SessionWithClient(rdb), rdb, nil
}

// SessionWithClient is Session with an existing Redis client (tests use
// miniredis here).
func SessionWithClient(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)

		var data map[string]interface{}
		if sessionID != "" {
			b, err := rdb.Get(context.Background(), SessionRedisPrefix+sessionID).Bytes()
			if err == nil {
				_ = json.Unmarshal(b, &data)
			}
		}
		if data == nil {
			data = make(map[string]interface{})
		}

		c.Locals("session_data", data)
		if a, ok := data["admin"]; ok {
			c.Locals("admin", a)
		} else {
			c.Locals("admin", nil)
		}
		c.Locals("session_id", sessionID)

		if err := c.Next(); err != nil {
			return err
		}

		// Persist if we have a session id (e.g. after login)
		if sid, _ := c.Locals("session_id").(string); sid != "" {
			updated, _ := c.Locals("session_data").(map[string]interface{})
			if updated != nil {
				b, _ := json.Marshal(updated)
				rdb.Set(context.Background(), SessionRedisPrefix+sid, b, sessionMaxAge)
			}
		}
		return nil
	}
}

// GetSessionID returns the current session ID from context (for login/logout).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}

// SetSessionAdmin marks the session as logged in. Call after a successful
// login, after RegenerateSessionID.
func SetSessionAdmin(c *fiber.Ctx, admin SessionAdmin) {
	data, _ := c.Locals("session_data").(map[string]interface{})
	if data == nil {
		data = make(map[string]interface{})
	}
	data["admin"] = map[string]interface{}{"email": admin.Email}
	c.Locals("session_data", data)
	c.Locals("admin", data["admin"])
}

// ClearSessionAdmin removes the admin marker from the session (logout).
func ClearSessionAdmin(c *fiber.Ctx) {
	data, _ := c.Locals("session_data").(map[string]interface{})
	if data != nil {
		delete(data, "admin")
		c.Locals("session_data", data)
	}
	c.Locals("admin", nil)
}

// RegenerateSessionID creates a new session ID and sets it in Locals; the
// cookie itself is set by the login handler.
func RegenerateSessionID(c *fiber.Ctx) string {
	sid := uuid.New().String()
	c.Locals("session_id", sid)
	return sid
}

// SessionCookie builds the session cookie for a given id.
func SessionCookie(sid string, cfg SessionConfig) *fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev || cfg.IsProduction {
		sameSite = "None"
	}
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		HTTPOnly: true,
		Secure:   cfg.IsProduction || cfg.AllowCrossSiteDev,
		SameSite: sameSite,
		MaxAge:   int(sessionMaxAge.Seconds()),
		Path:     "/",
	}
}
