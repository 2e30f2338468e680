package api_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"Pulseboard/internal/api"
	"Pulseboard/internal/api/config"
	"Pulseboard/internal/api/handler"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/database"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/pkg/security"
	"Pulseboard/internal/repository"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, security.Init(config.AuthConfig{Secret: "test-secret", Issuer: "Pulseboard", ExpireHours: 1}))

	db, err := database.NewGormDB(database.MemoryConfig(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := period.FixedClock(model.NewDate(2024, time.August, 15))
	repo := repository.NewMetricsRepository(db)
	resolver := service.NewWorkspaceResolver(repo)
	changeLog := service.NewChangeLogService(nil)
	metrics := service.NewMetricsService(repo, resolver, clock)
	entries := service.NewEntryService(repo, metrics, changeLog, service.NewPostSearchService(repo, nil))
	ingest := service.NewIngestService(repo, resolver, metrics, changeLog, nil, clock, service.IngestOptions{})

	return api.SetupRouter(&api.HandlersGroup{
		IngestHandler:     handler.NewIngestHandler(ingest, 5),
		MetricsHandler:    handler.NewMetricsHandler(metrics),
		PostSearchHandler: handler.NewPostSearchHandler(service.NewPostSearchService(repo, nil)),
		EntryHandler:      handler.NewEntryHandler(entries),
		ChangeLogHandler:  handler.NewChangeLogHandler(changeLog),
	}, "test", nil)
}

func do(t *testing.T, r *gin.Engine, method, path, body, token string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPing(t *testing.T) {
	r := newRouter(t)
	out := do(t, r, http.MethodGet, "/api/ping", "", "")
	assert.Equal(t, 200, out.Code)
	assert.Equal(t, "pong", out.Message)
}

func TestTraceHeader(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Trace-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Trace-ID", "bad id\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	got := w.Header().Get("X-Trace-ID")
	assert.NotEqual(t, "bad id\n", got)
	assert.Len(t, got, 36)
}

func TestWritesRequireToken(t *testing.T) {
	r := newRouter(t)
	out := do(t, r, http.MethodPost, "/api/workspaces/acme/entries/new_followers",
		`{"date":"2024-08-01","total_followers":10}`, "")
	assert.Equal(t, 401, out.Code)

	viewer, err := security.GenerateToken(8, []string{"viewer"})
	require.NoError(t, err)
	out = do(t, r, http.MethodPost, "/api/workspaces/acme/entries/new_followers",
		`{"date":"2024-08-01","total_followers":10}`, viewer)
	assert.Equal(t, 403, out.Code)
}

func TestManualEntryFlow(t *testing.T) {
	r := newRouter(t)
	token, err := security.GenerateToken(7, []string{"editor"})
	require.NoError(t, err)

	// 尚无数据
	out := do(t, r, http.MethodGet, "/api/workspaces/acme/summary?period=MTD", "", "")
	assert.Equal(t, 404, out.Code)

	out = do(t, r, http.MethodPost, "/api/workspaces/acme/entries/new_followers",
		`{"date":"2024-08-01","total_followers":10}`, token)
	require.Equal(t, 200, out.Code, out.Message)

	// 缺字段
	out = do(t, r, http.MethodPost, "/api/workspaces/acme/entries/new_followers",
		`{"date":"2024-08-02"}`, token)
	assert.Equal(t, 400, out.Code)

	out = do(t, r, http.MethodGet, "/api/workspaces/acme/entries/new_followers", "", "")
	require.Equal(t, 200, out.Code)
	var entries []struct {
		ID   uint64 `json:"id"`
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-08-01", entries[0].Date)

	out = do(t, r, http.MethodGet, "/api/workspaces/acme/summary?period=MTD", "", "")
	require.Equal(t, 200, out.Code, out.Message)
	var summary struct {
		Workspace string `json:"workspace"`
		Source    string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &summary))
	assert.Equal(t, "acme", summary.Workspace)
	assert.Equal(t, "database", summary.Source)

	req := httptest.NewRequest(http.MethodGet, "/api/workspaces/acme/series/export?period=LTD&metric=followers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "acme_followers_LTD.csv")
	assert.Equal(t, "date,followers\n2024-08-01,10\n", w.Body.String())

	out = do(t, r, http.MethodGet, "/api/workspaces", "", "")
	require.Equal(t, 200, out.Code)
	assert.JSONEq(t, `["acme"]`, string(out.Data))

	out = do(t, r, http.MethodDelete, "/api/workspaces/acme/entries/new_followers/"+strconv.FormatUint(entries[0].ID, 10), "", token)
	require.Equal(t, 200, out.Code, out.Message)

	out = do(t, r, http.MethodGet, "/api/workspaces/acme/summary", "", "")
	assert.Equal(t, 404, out.Code)
}

func TestIngestRejectsBrokenMultipart(t *testing.T) {
	r := newRouter(t)
	token, err := security.GenerateToken(7, []string{"editor"})
	require.NoError(t, err)

	post := func(contentType, body string) envelope {
		req := httptest.NewRequest(http.MethodPost, "/api/workspaces/acme/ingest", strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var out envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	// 请求体在文件内容中途被截断
	truncated := "--xyz\r\nContent-Disposition: form-data; name=\"followers\"; filename=\"f.xlsx\"\r\n\r\npartial"
	out := post("multipart/form-data; boundary=xyz", truncated)
	assert.Equal(t, 400, out.Code)
	assert.Contains(t, out.Message, service.ErrParamInvalid.Error())
	assert.NotEqual(t, service.ErrIncompleteUpload.Error(), out.Message)

	// 合法但缺少文件字段时才是上传不完整
	out = post("multipart/form-data; boundary=xyz", "--xyz\r\nContent-Disposition: form-data; name=\"persist\"\r\n\r\ntrue\r\n--xyz--\r\n")
	assert.Equal(t, 400, out.Code)
	assert.Equal(t, service.ErrIncompleteUpload.Error(), out.Message)
}

func TestBadRequests(t *testing.T) {
	r := newRouter(t)

	out := do(t, r, http.MethodGet, "/api/entries/unknown/fields", "", "")
	assert.Equal(t, 400, out.Code)

	out = do(t, r, http.MethodGet, "/api/workspaces/acme/summary?period=WEEK", "", "")
	assert.Equal(t, 400, out.Code)

	out = do(t, r, http.MethodGet, "/api/workspaces/acme/posts/search", "", "")
	assert.Equal(t, 400, out.Code)

	out = do(t, r, http.MethodGet, "/api/entries/posts/fields", "", "")
	assert.Equal(t, 200, out.Code)
}
