package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/baoduongg/game-library/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	sessionCookie = "Session"
	sessionLocal  = "session"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.SessionContext, error)
}

// SessionLoader resolves the caller from the Session cookie or a bearer
// token and stores it for the handlers. A missing or expired session leaves
// the request anonymous; operations that need an identity reject it later.
func SessionLoader(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Next()
		}

		session, err := resolver.Resolve(c.UserContext(), token)
		switch {
		case err == nil:
			c.Locals(sessionLocal, session)
		case errors.Is(err, domain.ErrUnauthenticated):
			zap.L().Debug("Ignoring invalid session", zap.Error(err))
		default:
			zap.L().Error("Failed to resolve session", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "session store is unavailable"})
		}
		return c.Next()
	}
}

// Session returns the caller resolved by SessionLoader, or the zero value
// for an anonymous request.
func Session(c *fiber.Ctx) domain.SessionContext {
	session, _ := c.Locals(sessionLocal).(domain.SessionContext)
	return session
}

// SessionFromLocals reads the same value through any Locals accessor, such
// as a websocket connection.
func SessionFromLocals(locals func(key string, value ...interface{}) interface{}) domain.SessionContext {
	session, _ := locals(sessionLocal).(domain.SessionContext)
	return session
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(sessionCookie); token != "" {
		return token
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
