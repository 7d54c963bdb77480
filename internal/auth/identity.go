package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/document-service/pkg/util"
)

// CurrentUserID returns the id of the authenticated caller, failing with an
// Unauthorized error when the request carries no identity.
func CurrentUserID(c *fiber.Ctx) (string, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.UserID == "" {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	return principal.UserID, nil
}

// IsAuthenticated reports whether the request carries a resolved identity.
func IsAuthenticated(c *fiber.Ctx) bool {
	principal, ok := PrincipalFromContext(c)
	return ok && principal.UserID != ""
}
