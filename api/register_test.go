package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/personapi/api"
)

func TestRegister_all_methods(t *testing.T) {
	t.Parallel()

	type Resp struct {
		Method string `json:"method"`
	}

	handler := func(method string) api.Handler[api.Void, Resp] {
		return func(_ context.Context, _ *api.Void) (*Resp, error) {
			return &Resp{Method: method}, nil
		}
	}

	tests := map[string]struct {
		register func(reg api.Registrar)
		method   string
	}{
		"GET":    {register: func(reg api.Registrar) { api.Get(reg, "/test", handler("GET")) }, method: http.MethodGet},
		"POST":   {register: func(reg api.Registrar) { api.Post(reg, "/test", handler("POST")) }, method: http.MethodPost},
		"PUT":    {register: func(reg api.Registrar) { api.Put(reg, "/test", handler("PUT")) }, method: http.MethodPut},
		"PATCH":  {register: func(reg api.Registrar) { api.Patch(reg, "/test", handler("PATCH")) }, method: http.MethodPatch},
		"DELETE": {register: func(reg api.Registrar) { api.Delete(reg, "/test", handler("DELETE")) }, method: http.MethodDelete},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New()
			tc.register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, "/test", nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"method":"`+name+`"}`, w.Body.String())
		})
	}
}

func TestRegister_status(t *testing.T) {
	t.Parallel()

	type Resp struct {
		OK bool `json:"ok"`
	}

	ok := func(_ context.Context, _ *api.Void) (*Resp, error) { return &Resp{OK: true}, nil }
	void := func(_ context.Context, _ *api.Void) (*api.Void, error) { return &api.Void{}, nil }
	nilResp := func(_ context.Context, _ *api.Void) (*Resp, error) { return nil, nil }

	tests := map[string]struct {
		register   func(r *api.Router)
		wantStatus int
		wantBody   string
	}{
		"default 200": {
			register:   func(r *api.Router) { api.Get(r, "/x", ok) },
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
		},
		"declared 201": {
			register:   func(r *api.Router) { api.Get(r, "/x", ok, api.WithStatus(http.StatusCreated)) },
			wantStatus: http.StatusCreated,
			wantBody:   `{"ok":true}`,
		},
		"declared 204 drops body": {
			register:   func(r *api.Router) { api.Get(r, "/x", ok, api.WithStatus(http.StatusNoContent)) },
			wantStatus: http.StatusNoContent,
		},
		"void defaults to 204": {
			register:   func(r *api.Router) { api.Get(r, "/x", void) },
			wantStatus: http.StatusNoContent,
		},
		"void with declared status": {
			register:   func(r *api.Router) { api.Get(r, "/x", void, api.WithStatus(http.StatusAccepted)) },
			wantStatus: http.StatusAccepted,
		},
		"nil response": {
			register:   func(r *api.Router) { api.Get(r, "/x", nilResp, api.WithStatus(http.StatusCreated)) },
			wantStatus: http.StatusCreated,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New()
			tc.register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody == "" {
				assert.Empty(t, w.Body.String())
				return
			}
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestRegister_handler_errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		"status error": {
			err:        api.Error(http.StatusNotFound, "person not found"),
			wantStatus: http.StatusNotFound,
			wantDetail: "person not found",
		},
		"plain error hides message": {
			err:        errors.New("database password is hunter2"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Internal Server Error",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New()
			api.Get(r, "/x", func(_ context.Context, _ *api.Void) (*api.Void, error) {
				return nil, tc.err
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			require.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tc.wantDetail)
			assert.NotContains(t, w.Body.String(), "hunter2")
		})
	}
}

func TestRegister_handler_not_called_on_invalid_input(t *testing.T) {
	t.Parallel()

	type Req struct {
		Age int `query:"age" required:"true" maximum:"120"`
	}

	called := false
	r := api.New()
	api.Get(r, "/x", func(_ context.Context, _ *Req) (*api.Void, error) {
		called = true
		return nil, nil
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?age=121", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, called)
}

func TestRegister_body_limit_option(t *testing.T) {
	t.Parallel()

	type Req struct {
		Name string `json:"name"`
	}

	r := api.New()
	api.Post(r, "/x", func(_ context.Context, _ *Req) (*api.Void, error) {
		return nil, nil
	}, api.WithBodyLimit(16))

	body := `{"name":"` + strings.Repeat("a", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/x", io.NopCloser(strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRegister_bad_tags_panic(t *testing.T) {
	t.Parallel()

	type BadPattern struct {
		Name string `query:"name" pattern:"("`
	}
	type BadLength struct {
		Name string `query:"name" minLength:"two"`
	}
	type BadBound struct {
		Age int `json:"age" maximum:"old"`
	}

	assert.Panics(t, func() {
		api.Get(api.New(), "/x", func(_ context.Context, _ *BadPattern) (*api.Void, error) { return nil, nil })
	})
	assert.Panics(t, func() {
		api.Get(api.New(), "/x", func(_ context.Context, _ *BadLength) (*api.Void, error) { return nil, nil })
	})
	assert.Panics(t, func() {
		api.Post(api.New(), "/x", func(_ context.Context, _ *BadBound) (*api.Void, error) { return nil, nil })
	})
}
