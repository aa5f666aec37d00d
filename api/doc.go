// Package api is a generics-first HTTP API framework for Go. Handler types
// are the source of truth: request parameters, bodies, validation rules and
// responses are all expressed as Go types, and the framework derives
// binding, checking, serialization and OpenAPI 3.1 specs from them.
//
// The core handler signature removes http.ResponseWriter and *http.Request:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Routes are registered with package-level generic functions:
//
//	r := api.New(api.WithTitle("My API"), api.WithVersion("1.0.0"))
//	api.Get[ListReq, ListResp](r, "/items", listItems)
//	api.Post[CreateReq, Item](r, "/items", createItem, api.WithStatus(http.StatusCreated))
//
// Request types use struct tags for parameter binding and a Body field for
// request bodies. A struct with no binding tags is the body itself.
//
//	type CreateReq struct {
//	    OrgID string `path:"org_id"`
//	    Limit int    `query:"limit" default:"10" minimum:"1" maximum:"100"`
//	    Body  struct {
//	        Name  string `json:"name" required:"true" minLength:"1"`
//	        Email string `json:"email" format:"email"`
//	    }
//	}
//
// Each request type compiles once, at registration, into a table of rules.
// Every request is checked against the whole table and all failures are
// reported together as a 422 problem:
//
//	{"status":422,"title":"Validation Failed","errors":[
//	    {"field":"query.limit","message":"must be at most 100","value":500}]}
//
// Supported rule tags: required, default, minLength, maxLength, pattern,
// minimum, maximum, exclusiveMinimum, exclusiveMaximum, minItems, maxItems,
// enum and format. String types implementing Enum are closed sets.
//
// Form fields use the form tag; FileUpload fields receive multipart files.
//
// Middleware uses the standard func(http.Handler) http.Handler signature,
// so the entire Go middleware ecosystem works natively. Logger and Recovery
// log through zerolog.
//
// OpenAPI 3.1 specs are generated from registered routes:
//
//	r.ServeSpec("/openapi.json")
//	r.ServeDocs("/docs")
package api
