package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	"go.uber.org/zap"
)

// Join adds userID to the attendees. The capacity check and the insert run
// under the event's row lock so concurrent joins cannot overshoot.
func (s *EventService) Join(ctx context.Context, userID, eventID uuid.UUID) (*models.Event, error) {
	err := s.eventRepo.Transaction(ctx, func(repo *repository.EventRepository) error {
		event, err := repo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return notFound(err)
		}

		count, err := repo.CountAttendees(ctx, event.ID)
		if err != nil {
			return err
		}
		if models.IsFull(event.Capacity, int(count)) {
			return ErrEventFull
		}

		attending, err := repo.IsAttending(ctx, event.ID, userID)
		if err != nil {
			return err
		}
		if attending {
			return ErrAlreadyJoined
		}

		if err := repo.AddAttendee(ctx, event.ID, userID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyJoined
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendee joined", zap.String("event_id", eventID.String()), zap.String("user_id", userID.String()))
	s.confirmAttendance(event, userID)
	return event, nil
}

func (s *EventService) confirmAttendance(event *models.Event, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	for _, a := range event.Attendances {
		if a.UserID != userID {
			continue
		}
		to, name := a.User.Email, a.User.Name
		id, title, location, date := event.ID.String(), event.Title, event.Location, event.Date
		s.dispatch.send("attendance", func() error {
			return s.notifier.SendAttendanceConfirmation(to, name, id, title, location, date)
		})
		return
	}
}

// Leave removes userID from the attendees, under the same row lock as Join.
func (s *EventService) Leave(ctx context.Context, userID, eventID uuid.UUID) (*models.Event, error) {
	err := s.eventRepo.Transaction(ctx, func(repo *repository.EventRepository) error {
		if _, err := repo.GetByIDForUpdate(ctx, eventID); err != nil {
			return notFound(err)
		}
		if err := repo.RemoveAttendee(ctx, eventID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotJoined
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendee left", zap.String("event_id", eventID.String()), zap.String("user_id", userID.String()))
	return s.GetByID(ctx, eventID)
}
