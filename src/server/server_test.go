package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dashboard-builder/src/generators"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/orchestrator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

// memStore is an in-memory ILayoutStore for exercising the layout endpoints.
type memStore struct {
	layouts map[string]*models.MStoredLayout
	cache   map[string]interface{}
}

func newMemStore() *memStore {
	return &memStore{
		layouts: make(map[string]*models.MStoredLayout),
		cache:   make(map[string]interface{}),
	}
}

func (m *memStore) SaveLayout(layout *models.MDashboardLayout) bool {
	if layout == nil {
		return false
	}
	var version int64 = 1
	if prev, ok := m.layouts[layout.ID]; ok {
		version = prev.Version + 1
	}
	m.layouts[layout.ID] = &models.MStoredLayout{
		ID:      layout.ID,
		Name:    layout.Name,
		Data:    *layout.Clone(),
		Version: version,
	}
	return true
}

func (m *memStore) LoadLayout(id string) *models.MDashboardLayout {
	if rec, ok := m.layouts[id]; ok {
		return rec.Data.Clone()
	}
	return nil
}

func (m *memStore) GetAllLayouts() []models.MStoredLayout {
	out := make([]models.MStoredLayout, 0, len(m.layouts))
	for _, rec := range m.layouts {
		out = append(out, *rec)
	}
	return out
}

func (m *memStore) DeleteLayout(id string) bool {
	delete(m.layouts, id)
	return true
}

func (m *memStore) CacheWidgetData(key string, value interface{}) bool {
	m.cache[key] = value
	return true
}

func (m *memStore) GetCachedWidgetData(key string) interface{} {
	return m.cache[key]
}

func (m *memStore) ClearAll() bool {
	m.layouts = make(map[string]*models.MStoredLayout)
	m.cache = make(map[string]interface{})
	return true
}

// -----------------------------------------------------------------------------

func newTestServer() *APIServer {
	cfg := &models.MConfig{
		Name:     "dashboard-test",
		Env:      "test",
		LogLevel: "ERROR",
	}

	log := logger.NewLogger("ERROR", "test")
	orch := orchestrator.NewOrchestrator(generators.NewRegistry(nil), log)
	return NewAPIServer(cfg, orch, newMemStore(), log)
}

func doRequest(t *testing.T, srv *APIServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

// -----------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/api/health", "")
	require.Equal(t, 200, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["env"])
	assert.Greater(t, body["timestamp"].(float64), 0.0)
}

// -----------------------------------------------------------------------------

func TestInfoEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/", "")
	require.Equal(t, 200, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dashboard-test", body["name"])
	assert.NotEmpty(t, body["endpoints"])
}

// -----------------------------------------------------------------------------

func TestGetDataPerType(t *testing.T) {
	srv := newTestServer()

	for _, typ := range models.AllWidgetTypes() {
		rec := doRequest(t, srv, "GET", "/api/data/"+string(typ), "")
		require.Equal(t, 200, rec.Code, "type %s", typ)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(typ), body["type"])
		assert.NotNil(t, body["data"])
		assert.Greater(t, body["timestamp"].(float64), 0.0)
	}
}

// -----------------------------------------------------------------------------

func TestGetDataUnknownType(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/api/data/gauge", "")
	require.Equal(t, 400, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "gauge")
}

// -----------------------------------------------------------------------------

func TestBatchFiltersUnknownTypes(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "POST", "/api/data/batch", `{"types": ["bar", "gauge", "line", "bar"]}`)
	require.Equal(t, 200, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// "gauge" filtered silently, duplicate "bar" collapsed
	assert.Len(t, body, 2)
	assert.Contains(t, body, "bar")
	assert.Contains(t, body, "line")
}

// -----------------------------------------------------------------------------

func TestBatchRejectsBadRequests(t *testing.T) {
	srv := newTestServer()

	cases := map[string]string{
		"types not an array":   `{"types": "bar"}`,
		"not json":             `{{`,
		"empty list":           `{"types": []}`,
		"filters to empty":     `{"types": ["gauge", "sparkline"]}`,
		"missing types member": `{}`,
	}

	for name, payload := range cases {
		rec := doRequest(t, srv, "POST", "/api/data/batch", payload)
		assert.Equal(t, 400, rec.Code, name)
	}
}

// -----------------------------------------------------------------------------

func TestGetDataRecordsHistory(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/api/data/bar", "")
	require.Equal(t, 200, rec.Code)

	srv.stateMutex.RLock()
	defer srv.stateMutex.RUnlock()
	assert.NotNil(t, srv.latest[models.WidgetTypeBar])
	assert.Equal(t, 1, srv.history[models.WidgetTypeBar].Size())
}

// -----------------------------------------------------------------------------

func TestLayoutEndpointsRoundTrip(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "POST", "/api/layouts", `{
		"name": "Ops Board",
		"widgets": [{"type": "bar", "title": "Sales", "dataSource": "bar"}]
	}`)
	require.Equal(t, 201, rec.Code)

	var created models.MDashboardLayout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.Widgets, 1)
	assert.NotEmpty(t, created.Widgets[0].ID, "widget id minted server-side")

	rec = doRequest(t, srv, "GET", "/api/layouts", "")
	require.Equal(t, 200, rec.Code)
	var records []models.MStoredLayout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Ops Board", records[0].Name)

	rec = doRequest(t, srv, "GET", "/api/layouts/"+created.ID, "")
	require.Equal(t, 200, rec.Code)

	rec = doRequest(t, srv, "DELETE", "/api/layouts/"+created.ID, "")
	require.Equal(t, 200, rec.Code)

	rec = doRequest(t, srv, "GET", "/api/layouts/"+created.ID, "")
	assert.Equal(t, 404, rec.Code)
}

// -----------------------------------------------------------------------------

func TestPostLayoutRequiresName(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "POST", "/api/layouts", `{"widgets": []}`)
	assert.Equal(t, 400, rec.Code)

	rec = doRequest(t, srv, "POST", "/api/layouts", `{{`)
	assert.Equal(t, 400, rec.Code)
}

// -----------------------------------------------------------------------------

func TestLayoutEndpointsWithoutStore(t *testing.T) {
	cfg := &models.MConfig{Name: "dashboard-test", Env: "test", LogLevel: "ERROR"}
	log := logger.NewLogger("ERROR", "test")
	orch := orchestrator.NewOrchestrator(generators.NewRegistry(nil), log)
	srv := NewAPIServer(cfg, orch, nil, log)

	rec := doRequest(t, srv, "GET", "/api/layouts", "")
	assert.Equal(t, 503, rec.Code)
}

// -----------------------------------------------------------------------------

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest("OPTIONS", "/api/health", nil)
	req.Header.Set("Origin", "http://127.0.0.1:5173")

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, 204, rec.Code)
	assert.Equal(t, "http://127.0.0.1:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
