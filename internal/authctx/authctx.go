package authctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
)

var ErrNoIdentity = errors.New("no authenticated identity in request context")

// AuthContext carries the authenticated caller's identity through service
// calls. It is built once per request from the verified JWT claims and
// passed explicitly; nothing reads identity from ambient state.
type AuthContext struct {
	UserID     uuid.UUID
	EmployeeID string
	Name       string
	Role       models.Role
}

// IsAdmin reports whether the caller may perform mutating operations.
func (a AuthContext) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// FromFiber extracts the AuthContext from the JWT middleware's token in
// the Fiber context locals.
func FromFiber(c *fiber.Ctx) (AuthContext, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return AuthContext{}, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthContext{}, ErrNoIdentity
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return AuthContext{}, ErrNoIdentity
	}

	employeeID, _ := claims["employee_id"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)

	role := models.Role(roleStr)
	if !role.Valid() {
		return AuthContext{}, ErrNoIdentity
	}

	return AuthContext{
		UserID:     userID,
		EmployeeID: employeeID,
		Name:       name,
		Role:       role,
	}, nil
}
