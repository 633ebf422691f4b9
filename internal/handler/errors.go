package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/service"
	"go.uber.org/zap"
)

var errInvalidBody = &service.Error{Kind: service.KindValidation, Message: "Invalid request body"}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict, service.KindEventFull, service.KindAlreadyJoined, service.KindNotJoined:
		return fiber.StatusBadRequest
	case service.KindUnauthorized:
		return fiber.StatusUnauthorized
	case service.KindForbidden:
		return fiber.StatusForbidden
	case service.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as the JSON envelope.
// Unclassified errors are logged and reported without detail.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var se *service.Error
		if errors.As(err, &se) {
			status := statusFor(se.Kind)
			if len(se.Fields) > 0 {
				return c.Status(status).JSON(models.ValidationErrorResponse(se.Message, se.Fields))
			}
			return c.Status(status).JSON(models.ErrorResponse(se.Message))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusNotFound {
				return c.Status(fe.Code).JSON(models.ErrorResponse("Route not found"))
			}
			return c.Status(fe.Code).JSON(models.ErrorResponse(fe.Message))
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Internal server error"))
	}
}
