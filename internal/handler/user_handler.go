package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/eventos-backend/internal/middleware"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	profile, err := h.userService.Profile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(profile, "Profile retrieved successfully"))
}

// UpdateProfile accepts JSON {nombre} or a form with nombre and an avatar file.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	var avatar *multipart.FileHeader

	if isMultipart(c) || isURLEncoded(c) {
		values, file, err := formValues(c, "avatar")
		if err != nil {
			return err
		}
		req.Name = first(values, "nombre")
		avatar = file
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errInvalidBody
		}
	}

	user := middleware.GetCurrentUser(c)
	updated, err := h.userService.UpdateProfile(c.UserContext(), user.ID, req, avatar)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(updated, "Profile updated successfully"))
}
