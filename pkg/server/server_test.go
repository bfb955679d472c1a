package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempograph/tempograph"
	"github.com/tempograph/tempograph/pkg/config"
	"github.com/tempograph/tempograph/pkg/server/dto"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := tempograph.NewClient(nil, nil, nil, logger)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0

	s := New(cfg, client)
	s.Setup()
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live", "/health/detailed"} {
		w := doJSON(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestReasonAboutEventsEndpoint(t *testing.T) {
	s := newTestServer(t)

	start1 := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	end1 := start1.Add(time.Hour)
	start2 := end1
	end2 := start2.Add(time.Hour)

	w := doJSON(t, s, http.MethodPost, "/api/v1/events", dto.ReasonRequest{
		Events: []dto.EventPayload{
			{ID: "meeting", Start: &start1, End: &end1},
			{ID: "lunch", Start: &start2, End: &end2},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			EventsIdentified int `json:"events_identified"`
			ConstraintsAdded int `json:"constraints_added"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.EventsIdentified)
	assert.Equal(t, 1, resp.Data.ConstraintsAdded)
}

func TestReasonAboutEventsValidation(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/events", map[string]interface{}{"events": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/events", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddRelationEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1:   "e1",
		Event2:   "e2",
		Relation: "meets",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1:   "e1",
		Event2:   "e2",
		Relation: "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1:   "e1",
		Event2:   "e1",
		Relation: "meets",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestInferRelationsEndpoint(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1: "e1", Event2: "e2", Relation: "meets",
	})
	doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1: "e2", Event2: "e3", Relation: "before",
	})

	w := doJSON(t, s, http.MethodGet, "/api/v1/relations/e1/e3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"before"}, resp.Data)

	w = doJSON(t, s, http.MethodGet, "/api/v1/relations/e1/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderEndpoint(t *testing.T) {
	s := newTestServer(t)

	start1 := time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC)
	start2 := start1.Add(2 * time.Hour)
	start3 := start1.Add(4 * time.Hour)
	doJSON(t, s, http.MethodPost, "/api/v1/events", dto.ReasonRequest{
		Events: []dto.EventPayload{
			{ID: "E1", Start: &start1},
			{ID: "E2", Start: &start2},
			{ID: "E3", Start: &start3},
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/order", dto.OrderRequest{
		Events: []string{"E3", "E1", "E2"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"E1", "E2", "E3"}, resp.Data)
}

func TestConsistencyEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/consistency", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ConsistencyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Consistent)

	doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1: "a", Event2: "c", Relation: "equals",
	})
	doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1: "a", Event2: "b", Relation: "before",
	})
	doJSON(t, s, http.MethodPost, "/api/v1/relations", dto.AddRelationRequest{
		Event1: "b", Event2: "c", Relation: "before",
	})

	w = doJSON(t, s, http.MethodGet, "/api/v1/consistency", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Consistent)
	assert.NotEmpty(t, resp.Inconsistencies)
}

func TestFactEndpoints(t *testing.T) {
	s := newTestServer(t)

	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	w := doJSON(t, s, http.MethodPost, "/api/v1/facts", dto.AddFactRequest{
		Subject:   "alice",
		Predicate: "works_at",
		Object:    "acme",
		ValidFrom: &jan,
		ValidTo:   &may,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodGet, "/api/v1/facts/alice?at=2024-02-15T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Object string `json:"object"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "acme", resp.Data[0].Object)

	// Expired by now
	w = doJSON(t, s, http.MethodGet, "/api/v1/facts/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/facts/alice?at=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/facts", dto.AddFactRequest{Predicate: "p"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/events", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
