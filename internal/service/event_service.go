package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	"github.com/sefazor/eventos-backend/pkg/qrcode"
	"github.com/sefazor/eventos-backend/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var sortAliases = map[string]repository.SortField{
	"fecha":           repository.SortByDate,
	"date":            repository.SortByDate,
	"titulo":          repository.SortByTitle,
	"title":           repository.SortByTitle,
	"precio":          repository.SortByPrice,
	"price":           repository.SortByPrice,
	"createdat":       repository.SortByCreatedAt,
	"created_at":      repository.SortByCreatedAt,
	"capacidadmaxima": repository.SortByCapacity,
	"capacity":        repository.SortByCapacity,
}

func parseSort(s string) repository.SortField {
	if f, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return repository.SortByDate
}

type EventService struct {
	eventRepo *repository.EventRepository
	uploads   *UploadService
	qr        *qrcode.QRService
	validator *utils.Validator
	notifier  Notifier
	logger    *zap.Logger
	dispatch  dispatcher
}

func NewEventService(eventRepo *repository.EventRepository, uploads *UploadService, qr *qrcode.QRService, validator *utils.Validator, notifier Notifier, logger *zap.Logger) *EventService {
	logger = logger.Named("event")
	return &EventService{
		eventRepo: eventRepo,
		uploads:   uploads,
		qr:        qr,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		dispatch:  newDispatcher(logger),
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

// validate runs struct validation plus the future-date rule when checkDate is set.
func (s *EventService) validate(f eventFields, errs fieldErrors, checkDate bool) fieldErrors {
	errs.merge(s.validator.Validate(f))
	if checkDate && !errs.has("fecha") {
		if fe := s.validator.Var("fecha", f.Date, "future_date"); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

func (s *EventService) checkPoster(poster *multipart.FileHeader, errs fieldErrors) (fieldErrors, error) {
	if poster == nil {
		return errs, nil
	}
	if err := s.uploads.Check("cartel", poster); err != nil {
		var se *Error
		if errors.As(err, &se) && se.Kind == KindValidation {
			errs.merge(se.Fields)
			return errs, nil
		}
		return errs, err
	}
	return errs, nil
}

// Create validates every field and stores a new active event owned by creatorID.
func (s *EventService) Create(ctx context.Context, creatorID uuid.UUID, in models.EventInput, poster *multipart.FileHeader) (*models.Event, error) {
	fields := newEventFields()
	errs := fields.apply(in, false)
	errs = s.validate(fields, errs, true)

	errs, err := s.checkPoster(poster, errs)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	event := &models.Event{CreatorID: creatorID}
	fields.applyTo(event)
	event.Status = models.StatusActive

	if poster != nil {
		ref, err := s.uploads.Save(ctx, "cartel", PosterFolder, poster)
		if err != nil {
			return nil, err
		}
		event.Poster = &ref
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.uploads.Remove(ctx, event.Poster)
		return nil, err
	}

	s.logger.Info("event created", zap.String("event_id", event.ID.String()), zap.String("creator_id", creatorID.String()))
	return s.eventRepo.GetDetailed(ctx, event.ID)
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return event, nil
}

// Authorize loads the event and checks that requesterID created it.
// A missing event is reported before a foreign one.
func (s *EventService) Authorize(ctx context.Context, requesterID, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFound(err)
	}
	if event.CreatorID != requesterID {
		return nil, ErrNotEventCreator
	}
	return event, nil
}

// Update applies the fields present in in. The event row stays locked while
// the new capacity is checked against the current attendee count.
func (s *EventService) Update(ctx context.Context, requesterID, eventID uuid.UUID, in models.EventInput, poster *multipart.FileHeader) (*models.Event, error) {
	var newPoster, oldPoster *string

	err := s.eventRepo.Transaction(ctx, func(repo *repository.EventRepository) error {
		event, err := repo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return notFound(err)
		}
		if event.CreatorID != requesterID {
			return ErrNotEventCreator
		}

		fields := fieldsOf(event)
		errs := fields.apply(in, true)
		errs = s.validate(fields, errs, !fields.Date.Equal(event.Date))

		if fields.Capacity != nil && !errs.has("capacidadMaxima") {
			count, err := repo.CountAttendees(ctx, event.ID)
			if err != nil {
				return err
			}
			if int64(*fields.Capacity) < count {
				errs.add("capacidadMaxima", fmt.Sprintf("cannot be lower than the current number of attendees (%d)", count))
			}
		}

		errs, err = s.checkPoster(poster, errs)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			return NewValidationError(errs)
		}

		fields.applyTo(event)
		if poster != nil {
			ref, err := s.uploads.Save(ctx, "cartel", PosterFolder, poster)
			if err != nil {
				return err
			}
			newPoster, oldPoster = &ref, event.Poster
			event.Poster = &ref
		}

		return repo.Update(ctx, event)
	})
	if err != nil {
		s.uploads.Remove(ctx, newPoster)
		return nil, err
	}

	s.uploads.Remove(ctx, oldPoster)
	s.logger.Info("event updated", zap.String("event_id", eventID.String()))
	return s.GetByID(ctx, eventID)
}

// Delete removes the event and all its attendance records.
func (s *EventService) Delete(ctx context.Context, requesterID, eventID uuid.UUID) error {
	event, err := s.Authorize(ctx, requesterID, eventID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return notFound(err)
	}

	s.uploads.Remove(ctx, event.Poster)
	s.logger.Info("event deleted", zap.String("event_id", eventID.String()))
	return nil
}

// List returns one page of active events.
func (s *EventService) List(ctx context.Context, q models.EventListQuery) (*models.EventListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// pages beyond math.MaxInt/limit saturate instead of wrapping negative
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	filter := repository.EventFilter{
		Status: models.StatusActive,
		Search: strings.TrimSpace(q.Search),
		SortBy: parseSort(q.SortBy),
		Desc:   strings.EqualFold(strings.TrimSpace(q.Order), "desc"),
		Offset: offset,
		Limit:  limit,
	}

	var errs fieldErrors
	if c := strings.TrimSpace(q.Category); c != "" && !strings.EqualFold(c, "all") {
		category, ok := models.ParseCategory(c)
		if !ok {
			errs.add("categoria", fmt.Sprintf("must be one of: all, %s", categoryChoices()))
		}
		filter.Category = category
	}
	if q.CreatorID != "" {
		id, err := uuid.Parse(q.CreatorID)
		if err != nil {
			errs.add("creador", "must be a valid id")
		}
		filter.CreatorID = &id
	}
	if len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.EventListResponse{
		Events: models.NewEventResponses(events),
		Pagination: models.Pagination{
			CurrentPage:  page,
			TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
			TotalEvents:  total,
			EventsOnPage: len(events),
		},
	}, nil
}

// QRCode renders a PNG linking to the event page.
func (s *EventService) QRCode(ctx context.Context, eventID uuid.UUID, size int) ([]byte, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, notFound(err)
	}
	return s.qr.GenerateQRCode(eventID.String(), size)
}
