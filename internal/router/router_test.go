package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/db"
	"github.com/peka1011-dev/peka-blog/internal/handler"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T, templateGlob string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	api := handler.NewAPI(gdb)
	return SetupRouter(api, "test-secret", templateGlob), gdb
}

func writeTestTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	home := `<html><body><h1>{{ .siteName }}</h1>{{ range .posts }}<a href="/posts/{{ .Slug }}">{{ .Title }}</a>{{ end }}</body></html>`
	detail := `<html><body><h1>{{ .post.Title }}</h1>{{ range .outline }}<a href="#{{ .Anchor }}">{{ .Text }}</a>{{ end }}<div>{{ .content }}</div></body></html>`

	if err := os.WriteFile(filepath.Join(dir, "home.html"), []byte(home), 0o644); err != nil {
		t.Fatalf("write home template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "post_detail.html"), []byte(detail), 0o644); err != nil {
		t.Fatalf("write detail template: %v", err)
	}
	return filepath.Join(dir, "*.html")
}

func TestPing(t *testing.T) {
	r, _ := setupRouterTest(t, "")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pong") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPublicPagesRender(t *testing.T) {
	r, gdb := setupRouterTest(t, writeTestTemplates(t))

	post := db.Post{
		Title:     "Published Post",
		Slug:      "published-post",
		Content:   "# Intro\n\nhello\n",
		Published: true,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if err := gdb.Create(&db.Post{Title: "Draft", Slug: "unlisted-draft", Content: "wip"}).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	home := httptest.NewRecorder()
	r.ServeHTTP(home, httptest.NewRequest(http.MethodGet, "/", nil))
	if home.Code != http.StatusOK {
		t.Fatalf("home: expected 200, got %d", home.Code)
	}
	if !strings.Contains(home.Body.String(), "Published Post") {
		t.Fatalf("home is missing the published post: %s", home.Body.String())
	}
	if strings.Contains(home.Body.String(), "unlisted-draft") {
		t.Fatalf("home must not list drafts: %s", home.Body.String())
	}

	detail := httptest.NewRecorder()
	r.ServeHTTP(detail, httptest.NewRequest(http.MethodGet, "/posts/published-post", nil))
	if detail.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", detail.Code)
	}
	if !strings.Contains(detail.Body.String(), `href="#intro"`) {
		t.Fatalf("detail is missing the outline link: %s", detail.Body.String())
	}
	if !strings.Contains(detail.Body.String(), `id="intro"`) {
		t.Fatalf("detail is missing the heading anchor: %s", detail.Body.String())
	}

	draft := httptest.NewRecorder()
	r.ServeHTTP(draft, httptest.NewRequest(http.MethodGet, "/posts/unlisted-draft", nil))
	if draft.Code != http.StatusNotFound {
		t.Fatalf("draft page: expected 404, got %d", draft.Code)
	}

	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/posts/never-existed", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing page: expected 404, got %d", missing.Code)
	}
}

func TestAdminFlowThroughRouter(t *testing.T) {
	r, gdb := setupRouterTest(t, "")
	if err := db.EnsureAdmin(gdb, "admin@example.com", "admin-secret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	// Unauthenticated writes are rejected at the gate.
	anonymous := postJSON(t, r, "/api/posts", "", map[string]any{"title": "Nope", "content": "x"})
	if anonymous.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", anonymous.Code)
	}

	login := postJSON(t, r, "/api/auth/login", "", map[string]any{
		"email":    "admin@example.com",
		"password": "admin-secret",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", login.Code, login.Body.String())
	}
	cookie := cookieHeader(login)

	created := postJSON(t, r, "/api/posts", cookie, map[string]any{
		"title":     "Routed Post",
		"content":   "# Title\n\nbody",
		"published": true,
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", created.Code, created.Body.String())
	}

	fetched := httptest.NewRecorder()
	r.ServeHTTP(fetched, httptest.NewRequest(http.MethodGet, "/api/posts/routed-post", nil))
	if fetched.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", fetched.Code)
	}
	if !strings.Contains(fetched.Body.String(), `"slug":"routed-post"`) {
		t.Fatalf("unexpected get body: %s", fetched.Body.String())
	}
}

func postJSON(t *testing.T, r *gin.Engine, target, cookie string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieHeader(w *httptest.ResponseRecorder) string {
	header := ""
	for i, c := range w.Result().Cookies() {
		if i > 0 {
			header += "; "
		}
		header += c.Name + "=" + c.Value
	}
	return header
}
