package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/personapi/api"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	restricted := api.CORSConfig{
		AllowOrigins:     []string{"https://app.example"},
		AllowMethods:     []string{"GET", "PUT"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	}

	tests := map[string]struct {
		cfg       []api.CORSConfig
		method    string
		origin    string
		preflight bool
		status    int
		headers   map[string]string
	}{
		"default any origin": {
			method: http.MethodGet,
			origin: "https://x.example",
			status: http.StatusOK,
			headers: map[string]string{
				"Access-Control-Allow-Origin": "*",
			},
		},
		"no origin": {
			method:  http.MethodGet,
			status:  http.StatusOK,
			headers: map[string]string{"Access-Control-Allow-Origin": ""},
		},
		"allowed origin echoed": {
			cfg:    []api.CORSConfig{restricted},
			method: http.MethodGet,
			origin: "https://app.example",
			status: http.StatusOK,
			headers: map[string]string{
				"Access-Control-Allow-Origin":      "https://app.example",
				"Access-Control-Allow-Credentials": "true",
				"Access-Control-Expose-Headers":    "X-Request-ID",
				"Access-Control-Allow-Methods":     "",
			},
		},
		"other origin ignored": {
			cfg:     []api.CORSConfig{restricted},
			method:  http.MethodGet,
			origin:  "https://evil.example",
			status:  http.StatusOK,
			headers: map[string]string{"Access-Control-Allow-Origin": ""},
		},
		"preflight": {
			cfg:       []api.CORSConfig{restricted},
			method:    http.MethodOptions,
			origin:    "https://app.example",
			preflight: true,
			status:    http.StatusNoContent,
			headers: map[string]string{
				"Access-Control-Allow-Methods": "GET, PUT",
				"Access-Control-Allow-Headers": "Content-Type",
				"Access-Control-Max-Age":       "600",
			},
		},
		"options without request method passes through": {
			cfg:    []api.CORSConfig{restricted},
			method: http.MethodOptions,
			origin: "https://app.example",
			status: http.StatusOK,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := api.CORS(tc.cfg...)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tc.method, "/", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", "PUT")
			}
			w := serve(h, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
			for k, v := range tc.headers {
				assert.Equal(t, v, w.Header().Get(k), k)
			}
		})
	}
}
