package utils

import (
	"testing"
	"time"
)

type sample struct {
	Title string    `json:"titulo" validate:"required,min=3,max=10"`
	Email string    `json:"email" validate:"required,email"`
	Price float64   `json:"precio" validate:"gte=0"`
	Kind  string    `json:"categoria" validate:"oneof=a b"`
	Date  time.Time `json:"fecha" validate:"required,future_date"`
	Mime  string    `json:"mime" validate:"omitempty,supported_image"`
}

func TestValidateCollectsEveryField(t *testing.T) {
	v := NewValidator()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	v.SetClock(func() time.Time { return now })

	errs := v.Validate(sample{
		Title: "ab",
		Email: "nope",
		Price: -1,
		Kind:  "c",
		Date:  now.Add(-time.Hour),
		Mime:  "application/pdf",
	})

	got := map[string]string{}
	for _, fe := range errs {
		got[fe.Field] = fe.Message
	}

	want := map[string]string{
		"titulo":    "must be at least 3 characters",
		"email":     "must be a valid email address",
		"precio":    "must be greater than or equal to 0",
		"categoria": "must be one of: a, b",
		"fecha":     "must be in the future",
		"mime":      "must be a JPEG, PNG, GIF or WebP image",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d field errors, got %+v", len(want), errs)
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestValidateOK(t *testing.T) {
	v := NewValidator()
	errs := v.Validate(sample{
		Title: "Título",
		Email: "naruto@konoha.com",
		Kind:  "a",
		Date:  time.Now().Add(time.Hour),
		Mime:  "image/png",
	})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2030-05-01T18:30:00Z", time.Date(2030, 5, 1, 18, 30, 0, 0, time.UTC), false},
		{"2030-05-01T18:30", time.Date(2030, 5, 1, 18, 30, 0, 0, time.UTC), false},
		{"2030-05-01", time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"01/05/2030", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestVar(t *testing.T) {
	v := NewValidator()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	v.SetClock(func() time.Time { return now })

	if fe := v.Var("fecha", now.Add(time.Minute), "future_date"); fe != nil {
		t.Fatalf("expected future date to pass, got %+v", fe)
	}
	fe := v.Var("fecha", now, "future_date")
	if fe == nil || fe.Field != "fecha" || fe.Message != "must be in the future" {
		t.Fatalf("unexpected field error %+v", fe)
	}
}
