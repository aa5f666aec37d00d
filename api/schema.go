package api

import (
	"reflect"
	"time"
)

// JSONSchema represents a JSON Schema object (subset for OpenAPI 3.1).
type JSONSchema struct {
	Type        string                `json:"type,omitempty"`
	Format      string                `json:"format,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty"`
	Required    []string              `json:"required,omitempty"`
	Description string                `json:"description,omitempty"`
	Enum        []string              `json:"enum,omitempty"`
	Default     any                   `json:"default,omitempty"`
	Ref         string                `json:"$ref,omitempty"`

	MinLength        *int     `json:"minLength,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`

	// AdditionalProperties can be true (any) or a schema.
	AdditionalProperties *JSONSchema `json:"additionalProperties,omitempty"`
}

// typeToSchema converts a reflect.Type to a JSONSchema.
func typeToSchema(t reflect.Type) JSONSchema {
	// Unwrap pointer.
	if t.Kind() == reflect.Pointer {
		return typeToSchema(t.Elem())
	}

	// Handle well-known types.
	switch t {
	case reflect.TypeFor[time.Time]():
		return JSONSchema{Type: "string", Format: "date-time"}
	case reflect.TypeFor[time.Duration]():
		return JSONSchema{Type: "string", Format: "duration"}
	case reflect.TypeFor[Void]():
		return JSONSchema{}
	case reflect.TypeFor[FileUpload]():
		return JSONSchema{Type: "string", Format: "binary"}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		s := JSONSchema{Type: "string"}
		if values, ok := enumValues(t); ok {
			s.Enum = values
		}
		return s
	case reflect.Bool:
		return JSONSchema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return JSONSchema{Type: "integer"}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return JSONSchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return JSONSchema{Type: "number"}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return JSONSchema{Type: "string", Format: "byte"}
		}
		items := typeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Array:
		items := typeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return JSONSchema{Type: "object"}
		}
		valSchema := typeToSchema(t.Elem())
		return JSONSchema{Type: "object", AdditionalProperties: &valSchema}
	case reflect.Struct:
		return structToSchema(t)
	default:
		return JSONSchema{}
	}
}

// structToSchema converts a struct type to a JSONSchema with properties.
// Embedded structs without a JSON name contribute their fields directly.
func structToSchema(t reflect.Type) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}
	addProperties(&schema, t)
	return schema
}

func addProperties(schema *JSONSchema, t reflect.Type) {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		// Param fields are not part of the body schema.
		if _, _, ok := fieldSource(f); ok {
			continue
		}

		if isInlined(f) {
			addProperties(schema, f.Type)
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		prop := typeToSchema(f.Type)
		applyConstraintTags(&prop, f)
		schema.Properties[name] = prop

		if f.Tag.Get("required") == "true" {
			schema.Required = append(schema.Required, name)
		}
	}
}

// applyConstraintTags copies a field's doc, default and constraint tags onto
// its schema, so the published document states the same limits the binder
// enforces.
func applyConstraintTags(s *JSONSchema, f reflect.StructField) {
	if doc := f.Tag.Get("doc"); doc != "" {
		s.Description = doc
	}
	if format := f.Tag.Get("format"); format != "" {
		s.Format = format
	}
	if def, ok := f.Tag.Lookup("default"); ok {
		s.Default = defaultValue(f.Type, def)
	}

	r := newRule(f, f.Name, f.Name, srcBody)
	s.MinLength, s.MaxLength = r.minLength, r.maxLength
	s.MinItems, s.MaxItems = r.minItems, r.maxItems
	if r.pattern != nil {
		s.Pattern = r.pattern.String()
	}
	if len(r.enum) > 0 {
		target := s
		if s.Type == "array" && s.Items != nil {
			target = s.Items
		}
		target.Enum = r.enum
	}
	s.Minimum = boundValue(r.minimum)
	s.Maximum = boundValue(r.maximum)
	s.ExclusiveMinimum = boundValue(r.exclusiveMinimum)
	s.ExclusiveMaximum = boundValue(r.exclusiveMaximum)
}

func boundValue(b *bound) *float64 {
	if b == nil {
		return nil
	}
	v := b.value
	return &v
}

// defaultValue renders a default tag with the field's JSON type.
func defaultValue(t reflect.Type, raw string) any {
	v := reflect.New(indirectType(t)).Elem()
	if err := setFieldValue(v, raw); err != nil {
		return raw
	}
	return v.Interface()
}
