package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akngs/k-families-data/pkg/config"
	"github.com/akngs/k-families-data/pkg/server/dto"
	"github.com/akngs/k-families-data/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *types.Dataset {
	return &types.Dataset{
		Persons: []types.Person{
			{Key: "Q1", Name: "Ada", Gender: types.GenderFemale, Birthdate: "18151210"},
			{Key: "Q2", Name: "Byron", Gender: types.GenderMale},
		},
		Nationalities: []types.Nationality{{Key: "Q145", Name: "United Kingdom"}},
		PersonRelations: []types.PersonRelation{
			{A: "Q1", B: "Q2", RelType: types.RelationMother},
			{A: "Q2", B: "Q1", RelType: types.RelationChild},
			{A: "Q9", B: "Q2", RelType: types.RelationSibling},
		},
		PersonNationalities: []types.PersonNationality{
			{Person: "Q1", Nationality: "Q145"},
			{Person: "Q2", Nationality: "Q145"},
		},
	}
}

func newTestServer(index *Index) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Server: config.ServerConfig{Host: "localhost", Port: 8080, Mode: gin.TestMode}}
	s := New(cfg, index, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Setup()
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSetup(t *testing.T) {
	s := newTestServer(NewIndex(testDataset()))
	assert.Equal(t, "localhost:8080", s.Addr())
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(NewIndex(testDataset())), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]any{
		"persons":            float64(2),
		"nationalities":      float64(1),
		"person2person":      float64(3),
		"person2nationality": float64(2),
	}, body["tables"])
}

func TestHealthWithoutDataset(t *testing.T) {
	s := newTestServer(nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/live").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/persons/Q1").Code)
}

func TestGetPerson(t *testing.T) {
	w := get(t, newTestServer(NewIndex(testDataset())), "/api/v1/persons/Q2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PersonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.Person{Key: "Q2", Name: "Byron", Gender: "m"}, resp.Person)
	assert.Equal(t, []dto.Relative{
		{Key: "Q1", Name: "Ada", RelType: "mother"},
		{Key: "Q9", RelType: "sibling"},
	}, resp.Relatives)
	assert.Equal(t, []dto.Nationality{{Key: "Q145", Name: "United Kingdom"}}, resp.Nationalities)
}

func TestGetPersonKnownOnlyFromEdges(t *testing.T) {
	w := get(t, newTestServer(NewIndex(testDataset())), "/api/v1/persons/Q9")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PersonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Q9", resp.Person.Key)
	assert.Empty(t, resp.Relatives)
}

func TestGetRelatives(t *testing.T) {
	w := get(t, newTestServer(NewIndex(testDataset())), "/api/v1/persons/Q1/relatives")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"key":"Q2","name":"Byron","reltype":"child"}]`, w.Body.String())
}

func TestPersonErrors(t *testing.T) {
	s := newTestServer(NewIndex(testDataset()))

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/persons/Q404", http.StatusNotFound},
		{"/api/v1/persons/ada", http.StatusBadRequest},
		{"/api/v1/persons/Q404/relatives", http.StatusNotFound},
		{"/api/v1/nationalities/Q1/persons", http.StatusNotFound},
		{"/api/v1/nationalities/uk/persons", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, s, tt.path)
			assert.Equal(t, tt.code, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestNationalities(t *testing.T) {
	s := newTestServer(NewIndex(testDataset()))

	w := get(t, s, "/api/v1/nationalities")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"key":"Q145","name":"United Kingdom"}]`, w.Body.String())

	w = get(t, s, "/api/v1/nationalities/Q145/persons")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.NationalityMembersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "United Kingdom", resp.Nationality.Name)
	require.Len(t, resp.Persons, 2)
	assert.Equal(t, "Q1", resp.Persons[0].Key)
	assert.Equal(t, "Q2", resp.Persons[1].Key)
}

func TestEmptyDatasetListsEmptyArray(t *testing.T) {
	w := get(t, newTestServer(NewIndex(&types.Dataset{})), "/api/v1/nationalities")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(NewIndex(testDataset()))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/nationalities", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
