package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SortField string

const (
	SortByDate      SortField = "date"
	SortByTitle     SortField = "title"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "created_at"
	SortByCapacity  SortField = "capacity"
)

var sortColumns = map[SortField]string{
	SortByDate:      "events.date",
	SortByTitle:     "events.title",
	SortByPrice:     "events.price",
	SortByCreatedAt: "events.created_at",
	SortByCapacity:  "events.capacity",
}

type EventFilter struct {
	Status    models.Status
	Category  models.Category
	Search    string
	CreatorID *uuid.UUID
	SortBy    SortField
	Desc      bool
	Offset    int
	Limit     int
}

type EventRepository struct {
	db             *gorm.DB
	searchLanguage string
}

func NewEventRepository(db *gorm.DB, searchLanguage string) *EventRepository {
	return &EventRepository{db: db, searchLanguage: searchLanguage}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *EventRepository) Transaction(ctx context.Context, fn func(repo *EventRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&EventRepository{db: tx, searchLanguage: r.searchLanguage})
	})
}

func (r *EventRepository) isPostgres() bool {
	return r.db.Dialector.Name() == "postgres"
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", translate(err))
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

// GetByIDForUpdate locks the event row until the surrounding transaction ends.
// SQLite has no row locks; its single writer gives the same guarantee.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	q := r.db.WithContext(ctx)
	if r.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var event models.Event
	if err := q.First(&event, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (r *EventRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Creator").
		Preload("Attendances", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_attendees.created_at ASC").Order("event_attendees.user_id ASC")
		}).
		Preload("Attendances.User")
}

// GetDetailed loads the event with its creator and attendees.
func (r *EventRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.withDetails(r.db.WithContext(ctx)).First(&event, "events.id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error; err != nil {
		return fmt.Errorf("update event: %w", translate(err))
	}
	return nil
}

// Delete removes the event and every attendance row pointing at it.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(repo *EventRepository) error {
		if err := repo.db.Where("event_id = ?", id).Delete(&models.EventAttendee{}).Error; err != nil {
			return fmt.Errorf("delete attendees: %w", err)
		}
		res := repo.db.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *EventRepository) CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *EventRepository) IsAttending(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	row := &models.EventAttendee{EventID: eventID, UserID: userID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return translate(err)
	}
	return nil
}

// RemoveAttendee returns ErrNotFound when the user was not attending.
func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventAttendee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) filtered(ctx context.Context, f EventFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Event{})
	if f.Status != "" {
		q = q.Where("events.status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("events.category = ?", f.Category)
	}
	if f.CreatorID != nil {
		q = q.Where("events.creator_id = ?", *f.CreatorID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		if r.isPostgres() {
			q = q.Where(database.SearchVector(r.searchLanguage)+" @@ plainto_tsquery(?::regconfig, ?)", database.SearchConfig(r.searchLanguage), search)
		} else {
			like := "%" + escapeLike(strings.ToLower(search)) + "%"
			q = q.Where("(LOWER(events.title) LIKE ? ESCAPE '\\' OR LOWER(events.description) LIKE ? ESCAPE '\\')", like, like)
		}
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of matching events and the total match count.
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]models.Event, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	events := []models.Event{}
	if total == 0 || int64(f.Offset) >= total {
		return events, total, nil
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[SortByDate]
	}

	q := r.withDetails(r.filtered(ctx, f)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column, Raw: true}, Desc: f.Desc}).
		Order("events.id ASC").
		Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (r *EventRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	events := []models.Event{}
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// ListAttendedBy returns the events a user joined, in join order.
func (r *EventRepository) ListAttendedBy(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	events := []models.Event{}
	err := r.db.WithContext(ctx).
		Joins("JOIN event_attendees ON event_attendees.event_id = events.id").
		Where("event_attendees.user_id = ?", userID).
		Order("event_attendees.created_at ASC").
		Find(&events).Error
	return events, err
}
