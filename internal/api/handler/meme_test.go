package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rudrodip/whatyouwant/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMemes struct {
	memeURL string
	render  *service.RenderResult
	card    string
	err     error

	calls   int
	lastReq *service.GenerateRequest
}

func (f *fakeMemes) Generate(ctx context.Context, req *service.GenerateRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.memeURL, f.err
}

func (f *fakeMemes) Render(ctx context.Context, req *service.GenerateRequest) (*service.RenderResult, error) {
	f.calls++
	f.lastReq = req
	return f.render, f.err
}

func (f *fakeMemes) Card(ctx context.Context, req *service.GenerateRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.card, f.err
}

type fakeAssets struct {
	files map[string][]byte
}

func (f *fakeAssets) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, fmt.Errorf("asset %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeAssets) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.files[key]
	return ok, nil
}

func (f *fakeAssets) URL(string) string { return "" }

func newTestRouter(memes *fakeMemes) *gin.Engine {
	assets := &fakeAssets{files: map[string][]byte{"og.png": []byte("default-png")}}
	h := NewMemeHandler(memes, assets, "og.png")

	r := gin.New()
	r.POST("/api/v1/generate", h.Generate)
	r.GET("/api/v1/og", h.Og)
	r.GET("/api/v1/card", h.Card)
	return r
}

func postGenerate(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_ValidatesQueryBeforeAnyWork(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing query", body: `{}`},
		{name: "empty query", body: `{"query": ""}`},
		{name: "one rune", body: `{"query": "a"}`},
		{name: "whitespace only", body: `{"query": "   "}`},
		{name: "whitespace padding around one rune", body: `{"query": "  a  "}`},
		{name: "51 runes", body: fmt.Sprintf(`{"query": %q}`, strings.Repeat("x", 51))},
		{name: "not json", body: `what do you want`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memes := &fakeMemes{}
			w := postGenerate(newTestRouter(memes), tt.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if memes.calls != 0 {
				t.Errorf("service calls = %d, want 0", memes.calls)
			}
		})
	}
}

func TestGenerate_QueryLengthBounds(t *testing.T) {
	// 2 and 50 runes are both inside the window; multi-byte runes count
	// as one.
	tests := []string{
		"ab",
		strings.Repeat("x", 50),
		strings.Repeat("猫", 50),
	}

	for _, query := range tests {
		memes := &fakeMemes{memeURL: "data:image/png;base64,xx"}
		w := postGenerate(newTestRouter(memes), fmt.Sprintf(`{"query": %q}`, query))

		if w.Code != http.StatusOK {
			t.Errorf("query %q: status = %d, want 200", query, w.Code)
		}
		if memes.calls != 1 {
			t.Errorf("query %q: service calls = %d, want 1", query, memes.calls)
		}
	}
}

func TestGenerate_Success(t *testing.T) {
	memes := &fakeMemes{memeURL: "https://cdn.example.com/a.png"}
	r := newTestRouter(memes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"query": "  capybara  "}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("Referer", "https://share.example.com/page")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		MemeURL string `json:"meme_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.MemeURL != "https://cdn.example.com/a.png" {
		t.Errorf("meme_url = %q", resp.MemeURL)
	}

	if memes.lastReq.Query != "capybara" {
		t.Errorf("query = %q, want trimmed", memes.lastReq.Query)
	}
	if memes.lastReq.ClientIP != "203.0.113.7" {
		t.Errorf("client ip = %q, want first forwarded entry", memes.lastReq.ClientIP)
	}
	if memes.lastReq.Referrer != "https://share.example.com/page" {
		t.Errorf("referrer = %q", memes.lastReq.Referrer)
	}
}

func TestGenerate_FailureIsGeneric(t *testing.T) {
	memes := &fakeMemes{err: fmt.Errorf("gemini: key sk-secret rejected")}
	w := postGenerate(newTestRouter(memes), `{"query": "capybara"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "sk-secret") {
		t.Error("internal error detail leaked to the client")
	}
	if !strings.Contains(w.Body.String(), genericFailure) {
		t.Errorf("body = %s, want generic message", w.Body.String())
	}
}

func TestOg_ServesRenderedMeme(t *testing.T) {
	memes := &fakeMemes{render: &service.RenderResult{Data: []byte("png"), ContentType: "image/png"}}
	r := newTestRouter(memes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/og?query=capybara&ref=https%3A%2F%2Ft.example.com", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("content type = %q", got)
	}
	if memes.lastReq.Referrer != "https://t.example.com" {
		t.Errorf("referrer = %q", memes.lastReq.Referrer)
	}
}

func TestOg_FallsBackToDefaultImage(t *testing.T) {
	tests := []struct {
		name  string
		memes *fakeMemes
		url   string
	}{
		{name: "no query", memes: &fakeMemes{}, url: "/api/v1/og"},
		{name: "query too short", memes: &fakeMemes{}, url: "/api/v1/og?query=a"},
		{name: "render failure", memes: &fakeMemes{err: fmt.Errorf("boom")}, url: "/api/v1/og?query=capybara"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.memes)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if w.Body.String() != "default-png" {
				t.Errorf("body = %q, want default image", w.Body.String())
			}
		})
	}
}

func TestCard(t *testing.T) {
	memes := &fakeMemes{card: "<svg></svg>"}
	r := newTestRouter(memes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/card?query=capybara", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("content type = %q", got)
	}
	if w.Body.String() != "<svg></svg>" {
		t.Errorf("body = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/card?query=a", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("short query status = %d, want 400", w.Code)
	}
	if memes.calls != 1 {
		t.Errorf("service calls = %d, want 1", memes.calls)
	}
}
