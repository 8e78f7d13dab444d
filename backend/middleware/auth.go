package middleware

import (
	"pincorder/backend/config"
	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthMiddleware resolves the bearer token to a user and stores it for
// handlers. Requests without a valid token for an existing user get 401.
func AuthMiddleware(cfg *config.Config, users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, err.Error())
		}
		user, err := users.Get(userID)
		if err != nil {
			return utils.Unauthorized(c, "Unknown user")
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
