package middleware

import (
	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the session user's role against PermissionRoles.
// Unconfigured permission -> 500 "Permission configuration error"; role not
// allowed -> 403. Services still re-resolve the caller from the database before
// any state change; this gate only rejects obvious non-admin traffic early.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		role := GetSessionRole(c)
		if role == "" {
			return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
		}
		roles, ok := constants.PermissionRoles[permission]
		if !ok || len(roles) == 0 {
			return response.Error(c, "Permission configuration error", fiber.StatusInternalServerError, nil)
		}
		if !constants.AllowedRole(permission, role) {
			return response.Error(c, "User is forbidden from performing this action", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}
