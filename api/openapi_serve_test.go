package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/personapi/api"
)

func pingRouter() *api.Router {
	r := api.New(api.WithTitle("Ping"), api.WithVersion("1.2.3"))
	api.Get(r, "/ping/{n}", func(_ context.Context, _ *struct {
		N int `path:"n"`
	}) (*specItem, error) {
		return &specItem{}, nil
	}, api.WithTags("ops"))
	return r
}

func TestServeSpec(t *testing.T) {
	t.Parallel()

	r := pingRouter()
	r.ServeSpec("/openapi.json")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var spec api.OpenAPISpec
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spec))
	assert.Equal(t, "Ping", spec.Info.Title)
	assert.Equal(t, []string{"/ping/{n}"}, keys(spec.Paths))
}

func TestServeSpecYAML(t *testing.T) {
	t.Parallel()

	r := pingRouter()
	r.ServeSpecYAML("/openapi.yaml")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])
	assert.NotContains(t, w.Body.String(), "{\"", "block style only")
}

func TestWriteSpecYAML_matches_JSON(t *testing.T) {
	t.Parallel()

	r := pingRouter()

	var js, ys bytes.Buffer
	require.NoError(t, r.WriteSpec(&js))
	require.NoError(t, r.WriteSpecYAML(&ys))

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(ys.Bytes(), &fromYAML))

	// Status codes stay strings in YAML.
	responses := fromYAML["paths"].(map[string]any)["/ping/{n}"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	assert.Contains(t, responses, "200")
	assert.Contains(t, responses, "422")

	info := fromYAML["info"].(map[string]any)
	assert.Equal(t, fromJSON["info"].(map[string]any)["version"], info["version"])
}
