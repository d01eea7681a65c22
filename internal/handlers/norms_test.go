package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"elecdesign/internal/norms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormsCacheEndpoints(t *testing.T) {
	h := newTestRouter(t, norms.NewProvider(norms.DefaultParams(), "test"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/preload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, len(norms.AllKeys()), body["loaded"])
	assert.Equal(t, "test", body["rule_set"])

	code, env := do(t, h, http.MethodPost, "/cache/preload", `{"keys":["nope"]}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, len(norms.AllKeys()), body["cleared"])
}

func TestNormsTablesEndpoint(t *testing.T) {
	h := newTestRouter(t, norms.NewProvider(norms.DefaultParams(), "test"))

	code, env := do(t, h, http.MethodGet, "/tables?table=breakers,grounding", "")
	require.Equal(t, http.StatusOK, code)
	var tables map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	assert.Len(t, tables, 2)
	assert.Contains(t, tables, "breakers")

	code, env = do(t, h, http.MethodGet, "/tables?table=fuses", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "fuses")
}

func TestNormsParamEndpoint(t *testing.T) {
	h := newTestRouter(t, norms.NewProvider(norms.DefaultParams(), "test"))

	code, env := do(t, h, http.MethodGet, "/params/"+norms.KeyBranchDropMaxPct, "")
	require.Equal(t, http.StatusOK, code)
	var p struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, norms.KeyBranchDropMaxPct, p.Key)
	assert.Equal(t, "3", p.Value)

	code, _ = do(t, h, http.MethodGet, "/params/unknown", "")
	assert.Equal(t, http.StatusNotFound, code)
}
