package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/personapi/api"
)

type specItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type specCreate struct {
	Name string `json:"name" required:"true" minLength:"1"`
}

type specQuery struct {
	ID    int     `path:"item_id" minimum:"1" doc:"Item ID"`
	Limit int     `query:"limit" default:"10" maximum:"100"`
	Trace *string `header:"X-Trace"`
}

type specLogin struct {
	User string `form:"user" required:"true" maxLength:"20"`
}

type specUpload struct {
	File api.FileUpload `form:"file" required:"true"`
}

func specRouter() *api.Router {
	r := api.New(
		api.WithTitle("Items"),
		api.WithVersion("2.0.0"),
		api.WithAPIDescription("Item catalog"),
		api.WithTagDescriptions(map[string]string{"items": "Catalog items"}),
	)

	api.Get(r, "/", func(_ context.Context, _ *api.Void) (*specItem, error) { return nil, nil })
	api.Post(r, "/items", func(_ context.Context, _ *specCreate) (*specItem, error) { return nil, nil },
		api.WithStatus(http.StatusCreated),
		api.WithTags("items"),
		api.WithSummary("Create item"),
		api.WithErrors(http.StatusConflict),
	)
	api.Get(r, "/items/{item_id}", func(_ context.Context, _ *specQuery) (*specItem, error) { return nil, nil },
		api.WithTags("items"),
		api.WithOperationID("readItem"),
		api.WithDeprecated(),
	)
	api.Put(r, "/items/{item_id}", func(_ context.Context, _ *specQuery) (*specItem, error) { return nil, nil },
		api.WithStatus(http.StatusNoContent),
	)
	api.Post(r, "/login", func(_ context.Context, _ *specLogin) (*api.Void, error) { return nil, nil })
	api.Post(r, "/upload", func(_ context.Context, _ *specUpload) (*api.Void, error) { return nil, nil })
	r.ServeSpec("/openapi.json")

	return r
}

func TestSpec_info_and_tags(t *testing.T) {
	t.Parallel()

	spec := specRouter().Spec()

	assert.Equal(t, "3.1.0", spec.OpenAPI)
	assert.Equal(t, api.OpenAPIInfo{Title: "Items", Description: "Item catalog", Version: "2.0.0"}, spec.Info)
	assert.Equal(t, []api.OpenAPITag{{Name: "items", Description: "Catalog items"}}, spec.Tags)
	assert.ElementsMatch(t, []string{"/", "/items", "/items/{item_id}", "/login", "/upload"}, keys(spec.Paths))
}

func TestSpec_operations(t *testing.T) {
	t.Parallel()

	spec := specRouter().Spec()

	create := spec.Paths["/items"]["post"]
	assert.Equal(t, "Create item", create.Summary)
	assert.Equal(t, "postItems", create.OperationID)
	assert.ElementsMatch(t, []string{"201", "409", "422"}, keys(create.Responses))
	require.NotNil(t, create.RequestBody)
	assert.True(t, create.RequestBody.Required)
	body := create.RequestBody.Content["application/json"].Schema
	require.NotNil(t, body)
	assert.Equal(t, []string{"name"}, body.Required)

	problem := create.Responses["422"].Content["application/problem+json"].Schema
	require.NotNil(t, problem)
	assert.Contains(t, problem.Properties, "errors")

	read := spec.Paths["/items/{item_id}"]["get"]
	assert.Equal(t, "readItem", read.OperationID)
	assert.True(t, read.Deprecated)
	assert.Nil(t, read.RequestBody)

	home := spec.Paths["/"]["get"]
	assert.ElementsMatch(t, []string{"200"}, keys(home.Responses))
	assert.Equal(t, "get", home.OperationID)

	update := spec.Paths["/items/{item_id}"]["put"]
	assert.Empty(t, update.Responses["204"].Content)
}

func TestSpec_parameters(t *testing.T) {
	t.Parallel()

	read := specRouter().Spec().Paths["/items/{item_id}"]["get"]
	require.Len(t, read.Parameters, 3)

	id := read.Parameters[0]
	assert.Equal(t, "item_id", id.Name)
	assert.Equal(t, "path", id.In)
	assert.True(t, id.Required)
	assert.Equal(t, "Item ID", id.Description)
	require.NotNil(t, id.Schema.Minimum)
	assert.InDelta(t, 1, *id.Schema.Minimum, 0)

	limit := read.Parameters[1]
	assert.Equal(t, "query", limit.In)
	assert.False(t, limit.Required)
	assert.Equal(t, 10, limit.Schema.Default)
	require.NotNil(t, limit.Schema.Maximum)

	trace := read.Parameters[2]
	assert.Equal(t, "X-Trace", trace.Name)
	assert.Equal(t, "header", trace.In)
	assert.Equal(t, "string", trace.Schema.Type)
}

func TestSpec_form_bodies(t *testing.T) {
	t.Parallel()

	spec := specRouter().Spec()

	login := spec.Paths["/login"]["post"]
	assert.Empty(t, login.Parameters)
	require.NotNil(t, login.RequestBody)
	form := login.RequestBody.Content["application/x-www-form-urlencoded"].Schema
	require.NotNil(t, form)
	assert.Equal(t, []string{"user"}, form.Required)
	require.NotNil(t, form.Properties["user"].MaxLength)
	assert.Equal(t, 20, *form.Properties["user"].MaxLength)

	upload := spec.Paths["/upload"]["post"]
	require.NotNil(t, upload.RequestBody)
	multipart := upload.RequestBody.Content["multipart/form-data"].Schema
	require.NotNil(t, multipart)
	assert.Equal(t, api.JSONSchema{Type: "string", Format: "binary"}, multipart.Properties["file"])
}

func TestOperationID(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		method, pattern, want string
	}{
		"root":      {method: "GET", pattern: "/", want: "get"},
		"simple":    {method: "POST", pattern: "/person/new", want: "postPersonNew"},
		"param":     {method: "GET", pattern: "/person/detail/{person_id}", want: "getPersonDetailPersonId"},
		"hyphen":    {method: "POST", pattern: "/post-image", want: "postPostImage"},
		"wildcard":  {method: "GET", pattern: "/files/{path...}", want: "getFilesPath"},
		"end match": {method: "GET", pattern: "/docs/{$}", want: "getDocs"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.OperationID(tc.method, tc.pattern))
		})
	}
}

func TestToOpenAPIPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/files/{path}", api.ToOpenAPIPath("/files/{path...}"))
	assert.Equal(t, "/", api.ToOpenAPIPath("/{$}"))
	assert.Equal(t, "/items/{id}", api.ToOpenAPIPath("/items/{id}"))
}
