package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datachat/models"
	"datachat/schema"
)

type stubChatter struct {
	lastQuestion string
	response     *models.ChatResponse
}

func (s *stubChatter) Ask(ctx context.Context, question string) *models.ChatResponse {
	s.lastQuestion = question
	return s.response
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

type stubAudit struct {
	records []models.AuditRecord
	err     error
	gotLim  int
}

func (s *stubAudit) Recent(limit int) ([]models.AuditRecord, error) {
	s.gotLim = limit
	return s.records, s.err
}

func newTestRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthHandler)
	r.POST("/api/chat", h.ChatHandler)
	r.GET("/api/schema", h.SchemaHandler)
	r.GET("/api/audit", h.AuditHandler)
	return r
}

func TestChatHandlerWiresServiceResponse(t *testing.T) {
	chat := &stubChatter{response: &models.ChatResponse{
		Success:      true,
		Message:      "Found 1 result(s)",
		GeneratedSQL: "SELECT * FROM customers;",
		Results: &models.QueryResult{
			Columns:  []string{"name"},
			Rows:     []map[string]any{{"name": "John Smith"}},
			RowCount: 1,
		},
	}}
	h := New(chat, &stubPinger{}, nil, nil, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"show customers"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "show customers", chat.lastQuestion)

	var got models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "SELECT * FROM customers;", got.GeneratedSQL)
	require.NotNil(t, got.Results)
	assert.Equal(t, 1, got.Results.RowCount)
}

func TestChatHandlerRejectsBadRequests(t *testing.T) {
	h := New(&stubChatter{}, &stubPinger{}, nil, nil, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	for _, body := range []string{``, `{}`, `{"message":""}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}

	// Whitespace-only message binds but is still rejected.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchemaHandler(t *testing.T) {
	h := New(&stubChatter{}, &stubPinger{}, nil, nil, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schema", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Success bool               `json:"success"`
		Schema  *schema.Descriptor `json:"schema"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	require.NotNil(t, got.Schema)
	assert.Equal(t, []string{"customers", "orders", "products", "employees"}, got.Schema.TableNames())
}

func TestHealthHandlerStates(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		genPinger  Pinger
		wantStatus string
		wantDB     string
		wantAI     string
	}{
		{"all healthy", nil, &stubPinger{}, "healthy", "connected", "ready"},
		{"no generator configured", nil, nil, "healthy", "connected", "not_configured"},
		{"db down", errors.New("refused"), &stubPinger{}, "degraded", "unreachable", "ready"},
		{"generator down", nil, &stubPinger{err: errors.New("401")}, "degraded", "connected", "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&stubChatter{}, &stubPinger{err: tt.dbErr}, tt.genPinger, nil, schema.Default(), zerolog.Nop())
			r := newTestRouter(h)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, w.Code)

			var got map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantStatus, got["status"])
			assert.Equal(t, tt.wantDB, got["db"])
			assert.Equal(t, tt.wantAI, got["ai_service"])
		})
	}
}

func TestHealthHandlerCachesProbes(t *testing.T) {
	db := &stubPinger{}
	h := New(&stubChatter{}, db, nil, nil, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// The database going down within the cache window is not observed.
	db.err = errors.New("refused")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])
}

func TestAuditHandler(t *testing.T) {
	audit := &stubAudit{records: []models.AuditRecord{
		{ID: "rec-1", Question: "q", Outcome: models.AuditOutcomeExecuted},
	}}
	h := New(&stubChatter{}, &stubPinger{}, nil, audit, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit?limit=7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, audit.gotLim)

	var got struct {
		Success bool                 `json:"success"`
		Count   int                  `json:"count"`
		Records []models.AuditRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "rec-1", got.Records[0].ID)
}

func TestAuditHandlerBadLimit(t *testing.T) {
	h := New(&stubChatter{}, &stubPinger{}, nil, &stubAudit{}, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	for _, q := range []string{"limit=0", "limit=-1", "limit=abc"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "query: %s", q)
	}
}

func TestAuditHandlerWithoutStore(t *testing.T) {
	h := New(&stubChatter{}, &stubPinger{}, nil, nil, schema.Default(), zerolog.Nop())
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
