package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryConference Category = "conferencia"
	CategoryWorkshop   Category = "taller"
	CategoryNetworking Category = "networking"
	CategorySocial     Category = "social"
	CategorySports     Category = "deportivo"
	CategoryCultural   Category = "cultural"
	CategoryOther      Category = "otro"
)

var Categories = []Category{
	CategoryConference,
	CategoryWorkshop,
	CategoryNetworking,
	CategorySocial,
	CategorySports,
	CategoryCultural,
	CategoryOther,
}

var categoryAliases = map[string]Category{
	"conference": CategoryConference,
	"workshop":   CategoryWorkshop,
	"sports":     CategorySports,
	"sport":      CategorySports,
	"other":      CategoryOther,
}

// ParseCategory accepts the stored value or its English alias, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	c, ok := categoryAliases[s]
	return c, ok
}

type Status string

const (
	StatusActive    Status = "activo"
	StatusCancelled Status = "cancelado"
	StatusFinished  Status = "finalizado"
)

var Statuses = []Status{StatusActive, StatusCancelled, StatusFinished}

var statusAliases = map[string]Status{
	"active":    StatusActive,
	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
	"finished":  StatusFinished,
}

func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	st, ok := statusAliases[s]
	return st, ok
}

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text;not null"`
	Date        time.Time `gorm:"not null;index"`
	Location    string    `gorm:"type:varchar(200);not null"`
	Poster      *string   `gorm:"type:text"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Capacity    *int
	Price       float64  `gorm:"not null;default:0"`
	Category    Category `gorm:"type:varchar(20);not null;default:'otro';index"`
	Status      Status   `gorm:"type:varchar(20);not null;default:'activo';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Creator     User            `gorm:"foreignKey:CreatorID;references:ID"`
	Attendances []EventAttendee `gorm:"foreignKey:EventID;references:ID"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	return nil
}

// EventAttendee is one confirmed attendance. The composite key makes a
// user appear at most once per event.
type EventAttendee struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"index"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// IsFull reports whether a capacity limit is set and reached.
func IsFull(capacity *int, attendees int) bool {
	return capacity != nil && attendees >= *capacity
}

func (e *Event) AttendeeCount() int {
	return len(e.Attendances)
}

func (e *Event) IsFull() bool {
	return IsFull(e.Capacity, e.AttendeeCount())
}

func (e *Event) HasAttendee(userID uuid.UUID) bool {
	for _, a := range e.Attendances {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

func (e *Event) Summary() EventSummary {
	return EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Location: e.Location}
}

type EventResponse struct {
	ID            uuid.UUID     `json:"_id"`
	Title         string        `json:"titulo"`
	Description   string        `json:"descripcion"`
	Date          time.Time     `json:"fecha"`
	Location      string        `json:"ubicacion"`
	Poster        *string       `json:"cartel"`
	Creator       UserSummary   `json:"creador"`
	Attendees     []UserSummary `json:"asistentes"`
	Capacity      *int          `json:"capacidadMaxima"`
	Price         float64       `json:"precio"`
	Category      Category      `json:"categoria"`
	Status        Status        `json:"estado"`
	AttendeeCount int           `json:"numeroAsistentes"`
	IsFull        bool          `json:"estaLleno"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// NewEventResponse expects Creator and Attendances.User to be preloaded.
func NewEventResponse(e *Event) EventResponse {
	attendees := make([]UserSummary, 0, len(e.Attendances))
	for i := range e.Attendances {
		a := &e.Attendances[i]
		if a.User.ID == uuid.Nil {
			attendees = append(attendees, UserSummary{ID: a.UserID})
			continue
		}
		attendees = append(attendees, a.User.Summary())
	}

	creator := e.Creator.Summary()
	if e.Creator.ID == uuid.Nil {
		creator = UserSummary{ID: e.CreatorID}
	}

	return EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Date:          e.Date,
		Location:      e.Location,
		Poster:        e.Poster,
		Creator:       creator,
		Attendees:     attendees,
		Capacity:      e.Capacity,
		Price:         e.Price,
		Category:      e.Category,
		Status:        e.Status,
		AttendeeCount: e.AttendeeCount(),
		IsFull:        e.IsFull(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func NewEventResponses(events []Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, NewEventResponse(&events[i]))
	}
	return out
}

type Pagination struct {
	CurrentPage  int   `json:"paginaActual"`
	TotalPages   int   `json:"totalPaginas"`
	TotalEvents  int64 `json:"totalEventos"`
	EventsOnPage int   `json:"eventosEnPagina"`
}

type EventListResponse struct {
	Events     []EventResponse `json:"eventos"`
	Pagination Pagination      `json:"paginacion"`
}
