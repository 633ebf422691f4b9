package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/service"
)

const (
	currentUserKey = "currentUser"
	eventKey       = "event"
)

type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// RequireAuth resolves the bearer token and stores the user in Locals.
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := m.authService.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			return err
		}
		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// GetCurrentUser returns the user set by RequireAuth, or nil.
func GetCurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// ParseID reads the :id route parameter.
func ParseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, service.ErrInvalidID
	}
	return id, nil
}

type EventAuthorizer interface {
	Authorize(ctx context.Context, requesterID, eventID uuid.UUID) (*models.Event, error)
}

// RequireEventCreator lets the request through only for the event's creator.
// Must run after RequireAuth.
func RequireEventCreator(events EventAuthorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return service.ErrMissingToken
		}
		id, err := ParseID(c)
		if err != nil {
			return err
		}
		event, err := events.Authorize(c.UserContext(), user.ID, id)
		if err != nil {
			return err
		}
		c.Locals(eventKey, event)
		return c.Next()
	}
}

func GetEvent(c *fiber.Ctx) *models.Event {
	event, _ := c.Locals(eventKey).(*models.Event)
	return event
}
