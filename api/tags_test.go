package api_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/personapi/api"
)

func TestTagDetection(t *testing.T) {
	t.Parallel()

	type params struct {
		ID int `path:"id"`
	}
	type form struct {
		Name string `form:"name"`
	}
	type mixed struct {
		ID   int `query:"id"`
		Body struct{}
	}
	type plain struct {
		Name string `json:"name"`
	}
	type hidden struct {
		name string `query:"name"`
	}

	tests := map[string]struct {
		typ                reflect.Type
		params, form, body bool
	}{
		"params":     {typ: reflect.TypeFor[params](), params: true},
		"form":       {typ: reflect.TypeFor[form](), params: true, form: true},
		"mixed":      {typ: reflect.TypeFor[*mixed](), params: true, body: true},
		"plain":      {typ: reflect.TypeFor[plain]()},
		"unexported": {typ: reflect.TypeFor[hidden]()},
		"non struct": {typ: reflect.TypeFor[string]()},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.params, api.HasParamTags(tc.typ))
			assert.Equal(t, tc.form, api.HasFormTags(tc.typ))
			assert.Equal(t, tc.body, api.HasBodyField(tc.typ))
		})
	}
}

func TestJSONFieldName(t *testing.T) {
	t.Parallel()

	type S struct {
		Named   string `json:"named,omitempty"`
		Options string `json:",omitempty"`
		Bare    string
		Skipped string `json:"-"`
	}

	typ := reflect.TypeFor[S]()
	want := []string{"named", "Options", "Bare", "-"}
	for i, w := range want {
		assert.Equal(t, w, api.JSONFieldName(typ.Field(i)))
	}
}

func TestTagOptions(t *testing.T) {
	t.Parallel()

	name, opts := api.TagOptions("first_name,omitempty,string")
	assert.Equal(t, "first_name", name)
	assert.Equal(t, "omitempty,string", opts)

	name, opts = api.TagOptions("age")
	assert.Equal(t, "age", name)
	assert.Empty(t, opts)
}
