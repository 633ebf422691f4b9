package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/testutil"
	"gorm.io/gorm"
)

func seedEvents(t *testing.T, db *gorm.DB, creator *models.User) []*models.Event {
	t.Helper()

	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	specs := []struct {
		title    string
		desc     string
		category models.Category
		status   models.Status
		price    float64
		offset   time.Duration
	}{
		{"Ramen tasting", "Ichiraku opens its kitchen for a night.", models.CategorySocial, models.StatusActive, 15, 3 * time.Hour},
		{"Taijutsu workshop", "Learn the basics with Might Guy.", models.CategoryWorkshop, models.StatusActive, 0, 1 * time.Hour},
		{"Ninja tech conference", "Talks about 100%_chakra efficiency.", models.CategoryConference, models.StatusActive, 50, 2 * time.Hour},
		{"Cancelled festival", "Fireworks over the Hokage rock.", models.CategoryCultural, models.StatusCancelled, 5, 4 * time.Hour},
	}

	out := make([]*models.Event, 0, len(specs))
	for _, s := range specs {
		e := &models.Event{
			Title:       s.title,
			Description: s.desc,
			Date:        base.Add(s.offset),
			Location:    "Konoha Village",
			CreatorID:   creator.ID,
			Category:    s.category,
			Status:      s.status,
			Price:       s.price,
		}
		if err := NewEventRepository(db, "").Create(context.Background(), e); err != nil {
			t.Fatalf("create %s: %v", s.title, err)
		}
		out = append(out, e)
	}
	return out
}

func titles(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEventRepositoryList(t *testing.T) {
	db := testutil.NewTestDB(t)
	creator := testutil.CreateUser(t, db, "Kakashi", "kakashi@konoha.com", "123456")
	seedEvents(t, db, creator)
	repo := NewEventRepository(db, "")
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    EventFilter
		wantTotal int64
		want      []string
	}{
		{
			name:      "active by date",
			filter:    EventFilter{Status: models.StatusActive, SortBy: SortByDate, Limit: 10},
			wantTotal: 3,
			want:      []string{"Taijutsu workshop", "Ninja tech conference", "Ramen tasting"},
		},
		{
			name:      "price desc",
			filter:    EventFilter{Status: models.StatusActive, SortBy: SortByPrice, Desc: true, Limit: 10},
			wantTotal: 3,
			want:      []string{"Ninja tech conference", "Ramen tasting", "Taijutsu workshop"},
		},
		{
			name:      "category",
			filter:    EventFilter{Status: models.StatusActive, Category: models.CategoryWorkshop, Limit: 10},
			wantTotal: 1,
			want:      []string{"Taijutsu workshop"},
		},
		{
			name:      "search is case insensitive",
			filter:    EventFilter{Status: models.StatusActive, Search: "RAMEN", Limit: 10},
			wantTotal: 1,
			want:      []string{"Ramen tasting"},
		},
		{
			name:      "search matches description and escapes wildcards",
			filter:    EventFilter{Status: models.StatusActive, Search: "100%_chakra", Limit: 10},
			wantTotal: 1,
			want:      []string{"Ninja tech conference"},
		},
		{
			name:      "second page",
			filter:    EventFilter{Status: models.StatusActive, SortBy: SortByDate, Offset: 2, Limit: 2},
			wantTotal: 3,
			want:      []string{"Ramen tasting"},
		},
		{
			name:      "page past the end",
			filter:    EventFilter{Status: models.StatusActive, Offset: 10, Limit: 2},
			wantTotal: 3,
			want:      []string{},
		},
		{
			name:      "unknown sort falls back to date",
			filter:    EventFilter{Status: models.StatusActive, SortBy: "password", Limit: 10},
			wantTotal: 3,
			want:      []string{"Taijutsu workshop", "Ninja tech conference", "Ramen tasting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != tt.wantTotal {
				t.Fatalf("expected total %d, got %d", tt.wantTotal, total)
			}
			if got := titles(events); !equalStrings(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEventRepositoryAttendance(t *testing.T) {
	db := testutil.NewTestDB(t)
	creator := testutil.CreateUser(t, db, "Kakashi", "kakashi@konoha.com", "123456")
	guest := testutil.CreateUser(t, db, "Sakura", "sakura@konoha.com", "123456")
	repo := NewEventRepository(db, "")
	ctx := context.Background()

	first := testutil.CreateEvent(t, db, creator, "First", nil)
	second := testutil.CreateEvent(t, db, creator, "Second", nil)

	if err := repo.AddAttendee(ctx, second.ID, guest.ID); err != nil {
		t.Fatalf("join second: %v", err)
	}
	if err := repo.AddAttendee(ctx, first.ID, guest.ID); err != nil {
		t.Fatalf("join first: %v", err)
	}
	if err := repo.AddAttendee(ctx, first.ID, guest.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on second join, got %v", err)
	}

	attending, err := repo.IsAttending(ctx, first.ID, guest.ID)
	if err != nil || !attending {
		t.Fatalf("IsAttending = %v, %v", attending, err)
	}

	attended, err := repo.ListAttendedBy(ctx, guest.ID)
	if err != nil {
		t.Fatalf("attended: %v", err)
	}
	if got := titles(attended); !equalStrings(got, []string{"Second", "First"}) {
		t.Fatalf("expected join order, got %v", got)
	}

	created, err := repo.ListByCreator(ctx, creator.ID)
	if err != nil {
		t.Fatalf("created: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(created))
	}

	detailed, err := repo.GetDetailed(ctx, first.ID)
	if err != nil {
		t.Fatalf("detailed: %v", err)
	}
	if detailed.Creator.Name != "Kakashi" || len(detailed.Attendances) != 1 || detailed.Attendances[0].User.Name != "Sakura" {
		t.Fatalf("unexpected preload %+v", detailed)
	}

	if err := repo.RemoveAttendee(ctx, first.ID, guest.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := repo.RemoveAttendee(ctx, first.ID, guest.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second leave, got %v", err)
	}
}

func TestEventRepositoryDeleteSweepsAttendance(t *testing.T) {
	db := testutil.NewTestDB(t)
	creator := testutil.CreateUser(t, db, "Kakashi", "kakashi@konoha.com", "123456")
	a := testutil.CreateUser(t, db, "Naruto", "naruto@konoha.com", "123456")
	b := testutil.CreateUser(t, db, "Hinata", "hinata@konoha.com", "123456")
	repo := NewEventRepository(db, "")
	ctx := context.Background()

	event := testutil.CreateEvent(t, db, creator, "Doomed", nil)
	other := testutil.CreateEvent(t, db, creator, "Survivor", nil)
	testutil.Join(t, db, event, a)
	testutil.Join(t, db, event, b)
	testutil.Join(t, db, other, a)

	if err := repo.Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, event.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted event to be gone, got %v", err)
	}

	for _, u := range []*models.User{a, b} {
		attended, err := repo.ListAttendedBy(ctx, u.ID)
		if err != nil {
			t.Fatalf("attended: %v", err)
		}
		for _, e := range attended {
			if e.ID == event.ID {
				t.Fatalf("user %s still references deleted event", u.Name)
			}
		}
	}

	count, err := repo.CountAttendees(ctx, other.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected other event untouched, got %d, %v", count, err)
	}

	if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting unknown event, got %v", err)
	}
}
