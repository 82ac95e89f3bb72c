package domain

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MesaageUserNotAllowed       = "user not allowed"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// StatusCode buckets a service error into its HTTP status. Conflicts and
// missing rows must not both collapse into 400, the toggle contract depends
// on the distinction.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrRecipeNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrIngredientNotFound),
		errors.Is(err, ErrRelationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrRelationExists),
		errors.Is(err, ErrDuplicateIngredient),
		errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrUsernameAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
