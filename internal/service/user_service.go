package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	"github.com/sefazor/eventos-backend/pkg/utils"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo  *repository.UserRepository
	eventRepo *repository.EventRepository
	uploads   *UploadService
	validator *utils.Validator
	logger    *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, eventRepo *repository.EventRepository, uploads *UploadService, validator *utils.Validator, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		uploads:   uploads,
		validator: validator,
		logger:    logger.Named("user"),
	}
}

func (s *UserService) getUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Profile returns the user with summaries of created and attended events.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.eventRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	attended, err := s.eventRepo.ListAttendedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{
		User:           *user,
		EventsCreated:  summaries(created),
		EventsAttended: summaries(attended),
	}, nil
}

func summaries(events []models.Event) []models.EventSummary {
	out := make([]models.EventSummary, 0, len(events))
	for i := range events {
		out = append(out, events[i].Summary())
	}
	return out
}

// UpdateProfile changes the name and/or avatar; absent values are left alone.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest, avatar *multipart.FileHeader) (*models.User, error) {
	if req.Name != nil {
		cleaned := utils.CleanText(*req.Name)
		if cleaned == "" {
			req.Name = nil
		} else {
			req.Name = &cleaned
		}
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	previous := user.Avatar
	if avatar != nil {
		ref, err := s.uploads.Save(ctx, "avatar", AvatarFolder, avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = &ref
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if avatar != nil {
			s.uploads.Remove(ctx, user.Avatar)
		}
		return nil, err
	}

	if avatar != nil {
		s.uploads.Remove(ctx, previous)
	}
	return user, nil
}
