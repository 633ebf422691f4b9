package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/eventos-backend/internal/config"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/testutil"
	jwtPkg "github.com/sefazor/eventos-backend/pkg/jwt"
	"github.com/sefazor/eventos-backend/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *storage.LocalStorage
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Env:            "test",
			AllowedOrigins: "*",
			BodyLimit:      4 * 1024 * 1024,
			FrontendURL:    "http://localhost:5173",
		},
		JWT: config.JWTConfig{
			Secret: testSecret,
			TTL:    time.Hour,
		},
		Storage: config.StorageConfig{
			Driver:   "local",
			MaxBytes: 1024 * 1024,
		},
		RateLimit: config.RateLimitConfig{
			AuthMax:        1000,
			AuthExpiration: time.Minute,
		},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("failed creating local storage: %v", err)
	}

	app := New(testConfig(), zap.NewNop(), db, store, nil)
	return &testEnv{app: app, db: db, store: store}
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) (*models.User, string) {
	t.Helper()

	user := testutil.CreateUser(t, db, name, email, "123456")
	token, err := jwtPkg.NewManager(testSecret, "", time.Hour).GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}
	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func performMultipartRequest(t *testing.T, app *fiber.App, method, path string, fields map[string]string, fileField, filename string, content []byte, headers map[string]string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("failed writing field %s: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("failed creating form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed writing form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{"Content-Type": w.FormDataContentType()}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	return performRequest(t, app, method, path, &body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %v", body)
	}
	if msg, _ := body["message"].(string); msg != expected {
		t.Fatalf("expected message %q, got %q", expected, msg)
	}
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	return data
}

func errorFields(body map[string]any) map[string]bool {
	out := map[string]bool{}
	list, _ := body["errors"].([]any)
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if f, ok := m["field"].(string); ok {
				out[f] = true
			}
		}
	}
	return out
}

func futureDate(d time.Duration) string {
	return time.Now().UTC().Add(d).Truncate(time.Second).Format(time.RFC3339)
}
