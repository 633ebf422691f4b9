package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func intPtr(n int) *int { return &n }

func TestIsFull(t *testing.T) {
	tests := []struct {
		name      string
		capacity  *int
		attendees int
		want      bool
	}{
		{"unlimited", nil, 1000, false},
		{"below", intPtr(3), 2, false},
		{"at capacity", intPtr(3), 3, true},
		{"above", intPtr(3), 4, true},
		{"capacity one empty", intPtr(1), 0, false},
	}
	for _, tt := range tests {
		if got := IsFull(tt.capacity, tt.attendees); got != tt.want {
			t.Errorf("%s: IsFull = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseCategoryAndStatus(t *testing.T) {
	cats := map[string]Category{
		"conferencia": CategoryConference,
		"Conference":  CategoryConference,
		" taller ":    CategoryWorkshop,
		"deportivo":   CategorySports,
		"sports":      CategorySports,
		"other":       CategoryOther,
	}
	for in, want := range cats {
		got, ok := ParseCategory(in)
		if !ok || got != want {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseCategory("music"); ok {
		t.Error("expected unknown category to fail")
	}

	statuses := map[string]Status{
		"activo":     StatusActive,
		"cancelled":  StatusCancelled,
		"canceled":   StatusCancelled,
		"FINALIZADO": StatusFinished,
	}
	for in, want := range statuses {
		got, ok := ParseStatus(in)
		if !ok || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseStatus("paused"); ok {
		t.Error("expected unknown status to fail")
	}
}

func TestNewEventResponseDerivedFields(t *testing.T) {
	creator := User{ID: uuid.New(), Name: "Kakashi", Email: "kakashi@konoha.com"}
	guest := User{ID: uuid.New(), Name: "Hinata", Email: "hinata@konoha.com"}
	e := &Event{
		ID:        uuid.New(),
		Title:     "Chūnin Exams",
		CreatorID: creator.ID,
		Creator:   creator,
		Capacity:  intPtr(1),
		Attendances: []EventAttendee{
			{UserID: guest.ID, User: guest},
		},
	}

	resp := NewEventResponse(e)
	if resp.AttendeeCount != 1 || !resp.IsFull {
		t.Fatalf("expected 1 attendee and full, got %d / %v", resp.AttendeeCount, resp.IsFull)
	}
	if resp.Creator.Name != "Kakashi" || resp.Attendees[0].Email != "hinata@konoha.com" {
		t.Fatalf("unexpected projections %+v", resp)
	}
	if !e.HasAttendee(guest.ID) || e.HasAttendee(creator.ID) {
		t.Fatal("HasAttendee mismatch")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"_id", "titulo", "creador", "asistentes", "capacidadMaxima", "numeroAsistentes", "estaLleno", "categoria", "estado"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("missing wire key %q in %s", key, raw)
		}
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{ID: uuid.New(), Name: "Naruto", Email: "naruto@konoha.com", PasswordHash: "$2a$12$secret"}
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatal(err)
	}
	if _, ok := wire["PasswordHash"]; ok {
		t.Fatalf("password hash leaked: %s", raw)
	}
	if wire["nombre"] != "Naruto" {
		t.Fatalf("unexpected payload %s", raw)
	}
}

func TestFlexString(t *testing.T) {
	var in EventInput
	body := `{"titulo":"Ramen night","capacidadMaxima":25,"precio":"9.5","estado":null}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Title.String() != "Ramen night" {
		t.Errorf("unexpected title %q", in.Title.String())
	}
	if in.Capacity.String() != "25" || in.Price.String() != "9.5" {
		t.Errorf("unexpected numbers %q %q", in.Capacity.String(), in.Price.String())
	}
	if in.Status != nil || in.Description != nil {
		t.Error("expected absent fields to stay nil")
	}

	if err := json.Unmarshal([]byte(`{"titulo":{"x":1}}`), &in); err == nil {
		t.Error("expected object value to be rejected")
	}

	form := EventInputFromForm(map[string][]string{"titulo": {"Taijutsu class"}, "precio": {""}})
	if form.Title.String() != "Taijutsu class" || form.Price == nil || form.Price.String() != "" {
		t.Errorf("unexpected form input %+v", form)
	}
	if form.Location != nil {
		t.Error("expected missing form value to stay nil")
	}
}
