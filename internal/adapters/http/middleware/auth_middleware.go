package middleware

import (
	"errors"
	"strings"

	"payments-api/internal/core/domain"
	"payments-api/internal/core/services"
	"payments-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// AuthMiddleware resolves the bearer token to a user and stores it in the
// request locals. Handlers read it with CurrentUser.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Authorization header first, then cookie
		accessToken := bearerToken(c)
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		// 2. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 3. Resolve user
		user, err := authService.Authenticate(c.Context(), accessToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				return response.Unauthorized(c, "User no longer exists")
			case errors.Is(err, domain.ErrUnauthenticated):
				return response.Unauthorized(c, "Invalid or expired access token")
			default:
				return response.InternalServerError(c, "Internal server error")
			}
		}

		// 4. Set user in context
		c.Locals(userLocalsKey, user)
		c.Locals("userID", user.ID)

		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
