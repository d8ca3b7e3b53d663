package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) (*API, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Post{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewAPI(gdb), gdb
}

// newSessionEngine builds a bare engine with the session middleware; each
// test registers just the routes it exercises.
func newSessionEngine() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("pekablog_session", store))
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, target, cookieHeader string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginCookie logs the account in through the Login handler and returns the
// session cookie header for subsequent requests.
func loginCookie(t *testing.T, api *API, email, password string) string {
	t.Helper()

	r := newSessionEngine()
	r.POST("/api/auth/login", api.Login)

	w := performJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	header := ""
	for i, c := range cookies {
		if i > 0 {
			header += "; "
		}
		header += c.Name + "=" + c.Value
	}
	return header
}

func registerUser(t *testing.T, api *API, email, password, name string) {
	t.Helper()

	r := newSessionEngine()
	r.POST("/api/auth/register", api.Register)

	w := performJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed with status %d: %s", w.Code, w.Body.String())
	}
}

func seedAdmin(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	if err := db.EnsureAdmin(gdb, "admin@example.com", "admin-secret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}
