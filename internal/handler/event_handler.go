package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/eventos-backend/internal/middleware"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// eventInput reads event fields from JSON, multipart (with a cartel file) or
// urlencoded bodies.
func eventInput(c *fiber.Ctx) (models.EventInput, *multipart.FileHeader, error) {
	var in models.EventInput
	if isMultipart(c) || isURLEncoded(c) {
		values, poster, err := formValues(c, "cartel")
		if err != nil {
			return in, nil, err
		}
		return models.EventInputFromForm(values), poster, nil
	}
	if len(c.Body()) == 0 {
		return in, nil, nil
	}
	if err := c.BodyParser(&in); err != nil {
		return in, nil, errInvalidBody
	}
	return in, nil, nil
}

func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	var q models.EventListQuery
	if err := c.QueryParser(&q); err != nil {
		return &service.Error{Kind: service.KindValidation, Message: "Invalid query parameters"}
	}

	res, err := h.eventService.List(c.UserContext(), q)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(res, "Events retrieved successfully"))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event), "Event retrieved successfully"))
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	in, poster, err := eventInput(c)
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	event, err := h.eventService.Create(c.UserContext(), user.ID, in, poster)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(models.NewEventResponse(event), "Event created successfully"))
}

// UpdateEvent runs behind RequireEventCreator.
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	in, poster, err := eventInput(c)
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	event, err := h.eventService.Update(c.UserContext(), user.ID, middleware.GetEvent(c).ID, in, poster)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event), "Event updated successfully"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if err := h.eventService.Delete(c.UserContext(), user.ID, middleware.GetEvent(c).ID); err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(nil, "Event deleted successfully"))
}

func (h *EventHandler) JoinEvent(c *fiber.Ctx) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	event, err := h.eventService.Join(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event), "Attendance confirmed successfully"))
}

func (h *EventHandler) LeaveEvent(c *fiber.Ctx) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	event, err := h.eventService.Leave(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event), "Attendance cancelled successfully"))
}

func (h *EventHandler) GetEventQR(c *fiber.Ctx) error {
	id, err := middleware.ParseID(c)
	if err != nil {
		return err
	}

	png, err := h.eventService.QRCode(c.UserContext(), id, c.QueryInt("size"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(png)
}
