package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rudrodip/whatyouwant/internal/domain"
)

type fakeStats struct {
	total int64
	logs  []domain.RequestLog
	err   error
}

func (f *fakeStats) TotalRequests(ctx context.Context) (int64, error) {
	return f.total, f.err
}

func (f *fakeStats) RecentLogs(ctx context.Context, limit int) ([]domain.RequestLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.logs) {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}

func statsRouter(stats *fakeStats) *gin.Engine {
	r := gin.New()
	r.GET("/api/v1/stats", NewStatsHandler(stats).Stats)
	return r
}

func getStats(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestStats(t *testing.T) {
	r := statsRouter(&fakeStats{total: 1337})

	w := getStats(r, "/api/v1/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if string(resp["total_requests"]) != "1337" {
		t.Errorf("total_requests = %s", resp["total_requests"])
	}
	if _, ok := resp["recent"]; ok {
		t.Error("recent included without being asked for")
	}
}

func TestStats_Recent(t *testing.T) {
	r := statsRouter(&fakeStats{
		total: 2,
		logs: []domain.RequestLog{
			{ID: "a", Query: "capybara", OutputType: "outsource"},
			{ID: "b", Query: "tea", OutputType: "emoji"},
		},
	})

	w := getStats(r, "/api/v1/stats?recent=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Recent []domain.RequestLog `json:"recent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Recent) != 2 {
		t.Errorf("recent = %d entries, want 2", len(resp.Recent))
	}

	if w := getStats(r, "/api/v1/stats?recent=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid recent status = %d, want 400", w.Code)
	}
	if w := getStats(r, "/api/v1/stats?recent=-1"); w.Code != http.StatusBadRequest {
		t.Errorf("negative recent status = %d, want 400", w.Code)
	}
}

func TestStats_StoreFailure(t *testing.T) {
	r := statsRouter(&fakeStats{err: fmt.Errorf("db gone")})

	w := getStats(r, "/api/v1/stats")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
