package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/eventos-backend/internal/middleware"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	res, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(res, "User registered successfully"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	res, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(res, "Login successful"))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	user := middleware.GetCurrentUser(c)
	if err := h.authService.ChangePassword(c.UserContext(), user.ID, req); err != nil {
		return err
	}

	return c.JSON(models.SuccessResponse(nil, "Password updated successfully"))
}
