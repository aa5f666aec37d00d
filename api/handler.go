package api

import "context"

// Void is used as a type parameter when a request has no parameters/body
// or a response has no body (results in 204 No Content).
type Void struct{}

// Handler is the core typed handler signature. The framework owns binding,
// validation and serialization, so handlers only ever see values that
// already passed every declared constraint.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
