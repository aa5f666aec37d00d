package person

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bjaus/personapi/api"
)

func handleHome(_ context.Context, _ *api.Void) (*Message, error) {
	return &Message{Message: "Hello World"}, nil
}

func handleCreate(ctx context.Context, req *Person) (*PersonOut, error) {
	zerolog.Ctx(ctx).Debug().Str("first_name", req.FirstName).Msg("person created")
	return req.Out(), nil
}

func handleDetail(_ context.Context, req *DetailQuery) (*Detail, error) {
	return &Detail{Name: req.Name, Age: req.Age}, nil
}

func handleDetailByID(_ context.Context, req *DetailPath) (*Exists, error) {
	return &Exists{strconv.Itoa(req.PersonID): "It exists!"}, nil
}

func handleUpdate(ctx context.Context, req *UpdateRequest) (*Merged, error) {
	merged, err := Merge(&req.Body.Person, &req.Body.Location)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("person_id", req.PersonID).Int("fields", len(merged)).Msg("person updated")
	return &merged, nil
}

func handleLogin(_ context.Context, req *LoginForm) (*LoginOut, error) {
	return NewLoginOut(req.Username), nil
}

func handleContact(_ context.Context, req *ContactForm) (*ContactOut, error) {
	return &ContactOut{UserAgent: req.UserAgent}, nil
}

func handleImage(_ context.Context, req *ImageForm) (*ImageOut, error) {
	data, err := req.Image.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &ImageOut{
		Filename: req.Image.Filename,
		Format:   req.Image.ContentType,
		Size:     Kilobytes(len(data)),
	}, nil
}

// Kilobytes converts a byte count to kilobytes of 1000 bytes, rounded to two
// decimals.
func Kilobytes(n int) float64 {
	return math.Round(float64(n)/1000*100) / 100
}

// Merge flattens the public fields of p and every field of l into one
// object keyed by JSON name. A key present in both is an error.
func Merge(p *Person, l *Location) (Merged, error) {
	merged := make(Merged)
	for _, part := range []any{p.Out(), l} {
		fields, err := toObject(part)
		if err != nil {
			return nil, err
		}
		for k, v := range fields {
			if _, dup := merged[k]; dup {
				return nil, api.Errorf(http.StatusInternalServerError, "duplicate field %q", k)
			}
			merged[k] = v
		}
	}
	return merged, nil
}

func toObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
