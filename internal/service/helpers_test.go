package service

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	"github.com/sefazor/eventos-backend/internal/testutil"
	jwtPkg "github.com/sefazor/eventos-backend/pkg/jwt"
	"github.com/sefazor/eventos-backend/pkg/qrcode"
	"github.com/sefazor/eventos-backend/pkg/storage"
	"github.com/sefazor/eventos-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sentMail struct {
	Kind string
	To   string
	Name string
	Ref  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) SendWelcomeEmail(to, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{Kind: "welcome", To: to, Name: name})
	return nil
}

func (n *fakeNotifier) SendAttendanceConfirmation(to, name, eventID, title, location string, date time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{Kind: "attendance", To: to, Name: name, Ref: eventID})
	return nil
}

func (n *fakeNotifier) Sent() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

type testEnv struct {
	db       *gorm.DB
	store    *storage.LocalStorage
	notifier *fakeNotifier
	auth     *AuthService
	users    *UserService
	events   *EventService
	uploads  *UploadService
}

func syncRun(fn func()) { fn() }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("failed creating local storage: %v", err)
	}

	log := zap.NewNop()
	validator := utils.NewValidator()
	notifier := &fakeNotifier{}
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db, "")
	uploads := NewUploadService(store, validator, 1024*1024, log)

	auth := NewAuthService(userRepo, jwtPkg.NewManager("test-secret", "", time.Hour), validator, notifier, log)
	auth.dispatch.run = syncRun
	events := NewEventService(eventRepo, uploads, qrcode.NewQRService("http://localhost:3000/eventos"), validator, notifier, log)
	events.dispatch.run = syncRun

	return &testEnv{
		db:       db,
		store:    store,
		notifier: notifier,
		auth:     auth,
		users:    NewUserService(userRepo, eventRepo, uploads, validator, log),
		events:   events,
		uploads:  uploads,
	}
}

func flex(s string) *models.FlexString {
	f := models.FlexString(s)
	return &f
}

func futureDate(d time.Duration) string {
	return time.Now().UTC().Add(d).Truncate(time.Second).Format(time.RFC3339)
}

func validEventInput() models.EventInput {
	return models.EventInput{
		Title:       flex("Chunin Exams"),
		Description: flex("The yearly exam for genin who want to advance."),
		Date:        flex(futureDate(30 * 24 * time.Hour)),
		Location:    flex("Konoha Stadium"),
		Capacity:    flex("50"),
		Price:       flex("12.5"),
		Category:    flex("deportivo"),
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	b, err := qrcode.NewQRService("").GenerateQRCode("poster", qrcode.MinSize)
	if err != nil {
		t.Fatalf("failed generating png: %v", err)
	}
	return b
}

// fileHeader round-trips content through a multipart form to get a real header.
func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed writing form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(10 << 20); err != nil {
		t.Fatalf("failed parsing multipart form: %v", err)
	}
	t.Cleanup(func() {
		_ = req.MultipartForm.RemoveAll()
	})
	return req.MultipartForm.File[field][0]
}

func fieldNames(err error) map[string]bool {
	out := map[string]bool{}
	if se, ok := err.(*Error); ok {
		for _, f := range se.Fields {
			out[f.Field] = true
		}
	}
	return out
}
