// Package seed fills a database with demo users and events.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "123456"

type demoUser struct {
	Name  string
	Email string
}

var demoUsers = []demoUser{
	{"Naruto Uzumaki", "naruto@konoha.com"},
	{"Sasuke Uchiha", "sasuke@konoha.com"},
	{"Sakura Haruno", "sakura@konoha.com"},
	{"Kakashi Hatake", "kakashi@konoha.com"},
	{"Hinata Hyuga", "hinata@konoha.com"},
}

type demoEvent struct {
	Title       string
	Description string
}

var demoEvents = []demoEvent{
	{"Ninja Martial Arts Tournament", "The best ninjas of the village show their skills in open combat."},
	{"New Chakra Techniques Conference", "Experts present the latest advances in chakra control."},
	{"Special Ramen Cooking Workshop", "Ichiraku shares the secrets behind its famous broth."},
	{"Hokage Council Meeting", "An open session about the future of the hidden villages."},
	{"Advanced Combat Training", "Intensive training for elite shinobi, bring your own kunai."},
	{"Konoha Spring Festival", "Music, food and fireworks to welcome the spring."},
	{"Ninja Medicine Seminar", "Field medicine techniques every team should know."},
	{"Shuriken Accuracy Contest", "Test your aim against the sharpest throwers in the village."},
	{"Day of the Ninja Celebration", "A full day honouring the traditions of the shinobi."},
	{"Infiltration Techniques Workshop", "Improve your stealth and reconnaissance skills."},
	{"Charity Gala for Young Ninjas", "A formal evening supporting the academy scholarship fund."},
	{"Forest Survival Course", "Learn to survive a week in the Forest of Death."},
}

var locations = []string{
	"Hidden Leaf Village - Ninja Academy",
	"Hokage Tower - Meeting Room",
	"Training Ground 7",
	"Ichiraku Ramen - Private Room",
	"Forest of Death - Safe Zone",
	"Hokage Rock - Lookout",
	"Konoha Hospital - Auditorium",
	"Ninja Library - Conference Hall",
}

var seedCategories = []models.Category{
	models.CategoryConference,
	models.CategoryWorkshop,
	models.CategoryNetworking,
	models.CategorySocial,
	models.CategorySports,
	models.CategoryCultural,
}

type Options struct {
	Reset  bool
	Events int
	// RandSeed makes runs reproducible; zero picks one from the clock.
	RandSeed int64
}

type Result struct {
	Users       []*models.User
	Events      []*models.Event
	Attendances int
}

type Seeder struct {
	db     *gorm.DB
	users  *repository.UserRepository
	events *repository.EventRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		users:  repository.NewUserRepository(db),
		events: repository.NewEventRepository(db, ""),
		logger: logger.Named("seed"),
		now:    time.Now,
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Events <= 0 {
		opts.Events = len(demoEvents)
	}
	if opts.RandSeed == 0 {
		opts.RandSeed = s.now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.RandSeed))

	if opts.Reset {
		if err := s.reset(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	for _, du := range demoUsers {
		user, err := s.ensureUser(ctx, du)
		if err != nil {
			return nil, err
		}
		res.Users = append(res.Users, user)
	}

	for i := 0; i < opts.Events; i++ {
		event, joined, err := s.createEvent(ctx, rng, i, res.Users)
		if err != nil {
			return nil, err
		}
		res.Events = append(res.Events, event)
		res.Attendances += joined
	}

	s.logger.Info("seed complete",
		zap.Int("users", len(res.Users)),
		zap.Int("events", len(res.Events)),
		zap.Int("attendances", res.Attendances),
	)
	return res, nil
}

func (s *Seeder) reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.EventAttendee{}, &models.Event{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("reset %T: %w", model, err)
			}
		}
		s.logger.Info("existing data removed")
		return nil
	})
}

// ensureUser returns the existing account for the email or creates it.
func (s *Seeder) ensureUser(ctx context.Context, du demoUser) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, du.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{Name: du.Name, Email: du.Email}
	user.SetPassword(DemoPassword)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", du.Email, err)
	}
	s.logger.Debug("user created", zap.String("email", du.Email))
	return user, nil
}

func (s *Seeder) createEvent(ctx context.Context, rng *rand.Rand, i int, users []*models.User) (*models.Event, int, error) {
	tmpl := demoEvents[i%len(demoEvents)]
	title := tmpl.Title
	if i >= len(demoEvents) {
		title = fmt.Sprintf("%s #%d", tmpl.Title, i/len(demoEvents)+1)
	}

	capacity := rng.Intn(51) + 10
	price := 0.0
	if rng.Float64() > 0.3 {
		price = float64(rng.Intn(5000))
	}
	creator := users[rng.Intn(len(users))]
	date := s.now().UTC().AddDate(0, 0, rng.Intn(60)+1).Truncate(time.Minute)

	event := &models.Event{
		Title:       title,
		Description: tmpl.Description,
		Date:        date,
		Location:    locations[rng.Intn(len(locations))],
		CreatorID:   creator.ID,
		Capacity:    &capacity,
		Price:       price,
		Category:    seedCategories[rng.Intn(len(seedCategories))],
		Status:      models.StatusActive,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, 0, fmt.Errorf("create event %q: %w", title, err)
	}

	// up to half the capacity, never the creator
	candidates := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID != creator.ID {
			candidates = append(candidates, u)
		}
	}
	rng.Shuffle(len(candidates), func(a, b int) { candidates[a], candidates[b] = candidates[b], candidates[a] })
	n := rng.Intn(min(capacity/2, len(candidates)) + 1)
	for _, u := range candidates[:n] {
		if err := s.events.AddAttendee(ctx, event.ID, u.ID); err != nil {
			return nil, 0, fmt.Errorf("join %s to %q: %w", u.Email, title, err)
		}
	}
	return event, n, nil
}
