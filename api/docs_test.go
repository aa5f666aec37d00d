package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/personapi/api"
)

func TestServeDocs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts     []api.DocsOption
		contains []string
	}{
		"swagger by default": {
			contains: []string{"<title>Person API</title>", "swagger-ui-bundle.js", `data-spec-url="/openapi.json"`},
		},
		"redoc": {
			opts:     []api.DocsOption{api.WithDocsUI(api.ReDoc)},
			contains: []string{"redoc.standalone.js", `spec-url="/openapi.json"`},
		},
		"custom title and url": {
			opts:     []api.DocsOption{api.WithDocsTitle("Reference"), api.WithDocsSpecURL("/spec.json")},
			contains: []string{"<title>Reference</title>", `data-spec-url="/spec.json"`},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New(api.WithTitle("Person API"))
			r.ServeDocs("/docs", tc.opts...)

			w := serve(r, httptest.NewRequest(http.MethodGet, "/docs", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			for _, s := range tc.contains {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestServeDocs_hidden_from_spec(t *testing.T) {
	t.Parallel()

	r := api.New()
	r.ServeDocs("/docs")
	r.ServeSpec("/openapi.json")

	assert.Empty(t, r.Spec().Paths)
}
