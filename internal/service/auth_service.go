package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	jwtPkg "github.com/sefazor/eventos-backend/pkg/jwt"
	"github.com/sefazor/eventos-backend/pkg/utils"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	tokens    *jwtPkg.Manager
	validator *utils.Validator
	notifier  Notifier
	logger    *zap.Logger
	dispatch  dispatcher
}

func NewAuthService(userRepo *repository.UserRepository, tokens *jwtPkg.Manager, validator *utils.Validator, notifier Notifier, logger *zap.Logger) *AuthService {
	logger = logger.Named("auth")
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		dispatch:  newDispatcher(logger),
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Name = utils.CleanText(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}
	user.SetPassword(req.Password)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	if s.notifier != nil {
		name, email := user.Name, user.Email
		s.dispatch.send("welcome", func() error {
			return s.notifier.SendWelcomeEmail(email, name)
		})
	}

	return &models.AuthResponse{
		User:  *user,
		Token: token,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Debug("login rejected", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	return &models.AuthResponse{
		User:  *user,
		Token: token,
	}, nil
}

// Authenticate resolves a bearer token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	userID, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwtPkg.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req models.ChangePasswordRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return NewValidationError(errs)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return ErrWrongPassword
	}

	user.SetPassword(req.NewPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}
