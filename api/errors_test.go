package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/personapi/api"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"http error": {
			err:  api.Error(http.StatusNotFound, "missing"),
			want: http.StatusNotFound,
		},
		"wrapped http error": {
			err:  fmt.Errorf("lookup: %w", api.Errorf(http.StatusConflict, "taken %d", 1)),
			want: http.StatusConflict,
		},
		"problem detail": {
			err:  api.ValidationProblem(),
			want: http.StatusUnprocessableEntity,
		},
		"deadline": {
			err:  fmt.Errorf("slow: %w", context.DeadlineExceeded),
			want: http.StatusServiceUnavailable,
		},
		"plain": {
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.ErrorStatus(tc.err))
		})
	}
}

func TestValidationProblem(t *testing.T) {
	t.Parallel()

	pd := api.ValidationProblem(
		api.ValidationError{Field: "query.age", Message: "field required"},
		api.ValidationError{Field: "body.name", Message: "must be at least 2 characters", Value: "a"},
	)

	assert.Equal(t, http.StatusUnprocessableEntity, pd.StatusCode())
	assert.Equal(t, "Validation Failed", pd.Title)
	assert.Equal(t, "2 constraint violation(s)", pd.Error())
	assert.Len(t, pd.Errors, 2)
}

func TestProblemDetail_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "detail", (&api.ProblemDetail{Title: "title", Detail: "detail"}).Error())
	assert.Equal(t, "title", (&api.ProblemDetail{Title: "title"}).Error())
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	err := api.Errorf(http.StatusTeapot, "short and %s", "stout")

	var he *api.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusTeapot, he.StatusCode())
	assert.Equal(t, "short and stout", he.Error())
}
