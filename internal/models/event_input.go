package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString decodes a JSON string, number or boolean into its text form.
// Forms submit every value as text, JSON clients send numbers; both end up here.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '{', '[':
		return fmt.Errorf("expected text or number, got %s", b)
	default:
		*f = FlexString(strings.TrimSpace(string(b)))
	}
	return nil
}

func (f *FlexString) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// EventInput carries raw event fields; nil means "not sent".
type EventInput struct {
	Title       *FlexString `json:"titulo"`
	Description *FlexString `json:"descripcion"`
	Date        *FlexString `json:"fecha"`
	Location    *FlexString `json:"ubicacion"`
	Capacity    *FlexString `json:"capacidadMaxima"`
	Price       *FlexString `json:"precio"`
	Category    *FlexString `json:"categoria"`
	Status      *FlexString `json:"estado"`
}

// EventInputFromForm builds an input from multipart/urlencoded values.
func EventInputFromForm(values map[string][]string) EventInput {
	get := func(key string) *FlexString {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := FlexString(v[0])
		return &s
	}
	return EventInput{
		Title:       get("titulo"),
		Description: get("descripcion"),
		Date:        get("fecha"),
		Location:    get("ubicacion"),
		Capacity:    get("capacidadMaxima"),
		Price:       get("precio"),
		Category:    get("categoria"),
		Status:      get("estado"),
	}
}

type EventListQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Category  string `query:"categoria"`
	SortBy    string `query:"ordenPor"`
	Order     string `query:"orden"`
	Search    string `query:"busqueda"`
	CreatorID string `query:"creador"`
}
