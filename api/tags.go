package api

import (
	"reflect"
	"strings"
)

// source identifies where a request value is read from.
type source int

const (
	srcBody source = iota
	srcPath
	srcQuery
	srcHeader
	srcCookie
	srcForm
)

func (s source) String() string {
	//exhaustive:ignore
	switch s {
	case srcPath:
		return "path"
	case srcQuery:
		return "query"
	case srcHeader:
		return "header"
	case srcCookie:
		return "cookie"
	case srcForm:
		return "form"
	default:
		return "body"
	}
}

// paramTags are the struct tags used for binding request parameters.
var paramTags = []string{"path", "query", "header", "cookie", "form"}

// fieldSource returns the wire name and source of a parameter field.
// The first binding tag present wins.
func fieldSource(f reflect.StructField) (string, source, bool) {
	for i, tag := range paramTags {
		if name := f.Tag.Get(tag); name != "" {
			return name, source(i + 1), true
		}
	}
	return "", srcBody, false
}

// hasParamTags reports whether the given type has any fields with
// parameter binding tags.
func hasParamTags(t reflect.Type) bool {
	return anyField(t, func(f reflect.StructField) bool {
		_, _, ok := fieldSource(f)
		return ok
	})
}

// hasFormTags reports whether the given type has any fields with
// a "form" binding tag.
func hasFormTags(t reflect.Type) bool {
	return anyField(t, func(f reflect.StructField) bool {
		return f.Tag.Get("form") != ""
	})
}

// hasBodyField reports whether the given type has an exported "Body" field.
func hasBodyField(t reflect.Type) bool {
	t = indirectType(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	f, ok := t.FieldByName("Body")
	return ok && f.IsExported()
}

func anyField(t reflect.Type, match func(reflect.StructField) bool) bool {
	t = indirectType(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() && match(f) {
			return true
		}
	}
	return false
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(f reflect.StructField) string {
	name, _ := tagOptions(f.Tag.Get("json"))
	if name == "" {
		return f.Name
	}
	return name
}

// isInlined reports whether encoding/json promotes the fields of f into
// the parent object: an embedded struct without an explicit JSON name.
func isInlined(f reflect.StructField) bool {
	if !f.Anonymous || f.Type.Kind() != reflect.Struct {
		return false
	}
	name, _ := tagOptions(f.Tag.Get("json"))
	return name == ""
}

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
