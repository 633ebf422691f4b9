package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/pkg/utils"
)

// eventFields is the typed, validated form of an event's editable data.
type eventFields struct {
	Title       string          `json:"titulo" validate:"required,min=3,max=100"`
	Description string          `json:"descripcion" validate:"required,min=10,max=1000"`
	Date        time.Time       `json:"fecha" validate:"required"`
	Location    string          `json:"ubicacion" validate:"required,min=5,max=200"`
	Capacity    *int            `json:"capacidadMaxima" validate:"omitempty,min=1"`
	Price       float64         `json:"precio" validate:"gte=0"`
	Category    models.Category `json:"categoria" validate:"required"`
	Status      models.Status   `json:"estado" validate:"required"`
}

func newEventFields() eventFields {
	return eventFields{Category: models.CategoryOther, Status: models.StatusActive}
}

func fieldsOf(e *models.Event) eventFields {
	return eventFields{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Capacity:    e.Capacity,
		Price:       e.Price,
		Category:    e.Category,
		Status:      e.Status,
	}
}

func (f eventFields) applyTo(e *models.Event) {
	e.Title = f.Title
	e.Description = f.Description
	e.Date = f.Date
	e.Location = f.Location
	e.Capacity = f.Capacity
	e.Price = f.Price
	e.Category = f.Category
	e.Status = f.Status
}

func categoryChoices() string {
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func statusChoices() string {
	names := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

type fieldErrors []utils.FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, utils.FieldError{Field: field, Message: message})
}

func (fe fieldErrors) has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// merge appends errs for fields that have no error yet.
func (fe *fieldErrors) merge(errs []utils.FieldError) {
	for _, e := range errs {
		if !fe.has(e.Field) {
			*fe = append(*fe, e)
		}
	}
}

// apply copies the fields present in in onto f. On update (partial), empty
// text values are treated as absent; a capacity of 0 or "" clears the limit.
func (f *eventFields) apply(in models.EventInput, partial bool) fieldErrors {
	var errs fieldErrors

	text := func(v *models.FlexString, dst *string) {
		if v == nil {
			return
		}
		cleaned := utils.CleanText(v.String())
		if cleaned == "" && partial {
			return
		}
		*dst = cleaned
	}
	text(in.Title, &f.Title)
	text(in.Description, &f.Description)
	text(in.Location, &f.Location)

	if in.Date != nil {
		raw := strings.TrimSpace(in.Date.String())
		switch {
		case raw == "" && partial:
		case raw == "":
			f.Date = time.Time{}
		default:
			d, err := utils.ParseDate(raw)
			if err != nil {
				errs.add("fecha", "must be a valid date")
			} else {
				f.Date = d
			}
		}
	}

	if in.Capacity != nil {
		raw := strings.TrimSpace(in.Capacity.String())
		switch raw {
		case "", "0", "null":
			f.Capacity = nil
		default:
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs.add("capacidadMaxima", "must be a whole number")
			} else {
				f.Capacity = &n
			}
		}
	}

	if in.Price != nil {
		raw := strings.TrimSpace(in.Price.String())
		switch {
		case raw == "" && partial:
		case raw == "":
			f.Price = 0
		default:
			p, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
				errs.add("precio", "must be a number")
			} else {
				f.Price = p
			}
		}
	}

	if in.Category != nil {
		raw := strings.TrimSpace(in.Category.String())
		if raw != "" {
			c, ok := models.ParseCategory(raw)
			if !ok {
				errs.add("categoria", fmt.Sprintf("must be one of: %s", categoryChoices()))
			} else {
				f.Category = c
			}
		}
	}

	// new events always start active
	if in.Status != nil && partial {
		raw := strings.TrimSpace(in.Status.String())
		if raw != "" {
			s, ok := models.ParseStatus(raw)
			if !ok {
				errs.add("estado", fmt.Sprintf("must be one of: %s", statusChoices()))
			} else {
				f.Status = s
			}
		}
	}

	return errs
}
