package api

import (
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// OpenAPISpec is the top-level OpenAPI 3.1 document.
type OpenAPISpec struct {
	OpenAPI string              `json:"openapi"`
	Info    OpenAPIInfo         `json:"info"`
	Tags    []OpenAPITag        `json:"tags,omitempty"`
	Paths   map[string]PathItem `json:"paths"`
}

// OpenAPIInfo holds API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// OpenAPITag names a tag and what its operations are about.
type OpenAPITag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PathItem maps HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string        `json:"summary,omitempty"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	OperationID string        `json:"operationId,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty"`
	RequestBody *RequestBody  `json:"requestBody,omitempty"`
	Responses   OperationResp `json:"responses"`
	Deprecated  bool          `json:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Schema      JSONSchema `json:"schema"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Required bool                `json:"required"`
	Content  map[string]MediaObj `json:"content"`
}

// MediaObj is a media type object with an optional schema.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty"`
}

// OperationResp maps HTTP status codes to response objects.
type OperationResp map[string]ResponseObj

// ResponseObj describes a single response.
type ResponseObj struct {
	Description string              `json:"description"`
	Content     map[string]MediaObj `json:"content,omitempty"`
}

// Spec generates the full OpenAPI 3.1 specification from registered routes.
func (r *Router) Spec() OpenAPISpec {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec := OpenAPISpec{
		OpenAPI: "3.1.0",
		Info: OpenAPIInfo{
			Title:       r.title,
			Description: r.description,
			Version:     r.version,
		},
		Paths: make(map[string]PathItem),
	}

	var tags []string
	for i := range r.routes {
		ri := &r.routes[i]
		path := toOpenAPIPath(ri.pattern)
		method := strings.ToLower(ri.method)

		if spec.Paths[path] == nil {
			spec.Paths[path] = make(PathItem)
		}
		spec.Paths[path][method] = buildOperation(ri)

		for _, tag := range ri.tags {
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}

	for _, tag := range tags {
		spec.Tags = append(spec.Tags, OpenAPITag{Name: tag, Description: r.tagDescs[tag]})
	}

	return spec
}

// buildOperation creates an Operation from a routeInfo.
func buildOperation(ri *routeInfo) Operation {
	op := Operation{
		Summary:     ri.summary,
		Description: ri.desc,
		Tags:        ri.tags,
		OperationID: ri.operationID,
		Deprecated:  ri.deprecated,
		Responses:   make(OperationResp),
	}
	if op.OperationID == "" {
		op.OperationID = operationID(ri.method, ri.pattern)
	}

	if ri.rules != nil {
		op.Parameters = extractParameters(ri.rules)
		op.RequestBody = extractRequestBody(ri.reqType, ri.rules)
	}

	status := ri.status
	if ri.respType == nil || ri.respType == reflect.TypeFor[Void]() || !bodyAllowed(status) {
		op.Responses[statusToString(status)] = ResponseObj{Description: http.StatusText(status)}
	} else {
		respSchema := typeToSchema(ri.respType)
		op.Responses[statusToString(status)] = ResponseObj{
			Description: "Successful response",
			Content: map[string]MediaObj{
				"application/json": {Schema: &respSchema},
			},
		}
	}

	if ri.rules != nil && ri.rules.cat != catVoid {
		op.Responses[statusToString(http.StatusUnprocessableEntity)] = problemResponse(http.StatusUnprocessableEntity)
	}
	for _, code := range ri.errors {
		op.Responses[statusToString(code)] = problemResponse(code)
	}

	return op
}

// problemResponse documents an RFC 9457 error response.
func problemResponse(code int) ResponseObj {
	schema := errorResponseSchema()
	return ResponseObj{
		Description: http.StatusText(code),
		Content: map[string]MediaObj{
			"application/problem+json": {Schema: &schema},
		},
	}
}

func errorResponseSchema() JSONSchema {
	return typeToSchema(reflect.TypeFor[ProblemDetail]())
}

// extractParameters builds OpenAPI parameters from the compiled param rules.
// Form fields are part of the request body, not parameters.
func extractParameters(rs *ruleSet) []Parameter {
	var params []Parameter
	for i := range rs.params {
		r := &rs.params[i]
		if r.src == srcForm {
			continue
		}
		params = append(params, Parameter{
			Name:        r.name,
			In:          r.src.String(),
			Description: r.doc,
			Required:    r.required,
			Schema:      paramSchema(r),
		})
	}
	return params
}

// paramSchema is the schema of a single bound value, constraints included.
func paramSchema(r *rule) JSONSchema {
	s := typeToSchema(r.typ)
	if r.hasDef {
		s.Default = defaultValue(r.typ, r.def)
	}
	if r.format != "" {
		s.Format = r.format
	}
	s.MinLength, s.MaxLength = r.minLength, r.maxLength
	s.MinItems, s.MaxItems = r.minItems, r.maxItems
	if r.pattern != nil {
		s.Pattern = r.pattern.String()
	}
	if len(r.enum) > 0 {
		if s.Type == "array" && s.Items != nil {
			s.Items.Enum = r.enum
		} else {
			s.Enum = r.enum
		}
	}
	s.Minimum = boundValue(r.minimum)
	s.Maximum = boundValue(r.maximum)
	s.ExclusiveMinimum = boundValue(r.exclusiveMinimum)
	s.ExclusiveMaximum = boundValue(r.exclusiveMaximum)
	return s
}

// extractRequestBody builds an OpenAPI RequestBody if the request type has a body.
func extractRequestBody(t reflect.Type, rs *ruleSet) *RequestBody {
	t = indirectType(t)

	//exhaustive:ignore
	switch rs.cat {
	case catBodyOnly:
		schema := typeToSchema(t)
		return &RequestBody{
			Required: true,
			Content:  map[string]MediaObj{"application/json": {Schema: &schema}},
		}

	case catMixed:
		schema := typeToSchema(t.FieldByIndex(rs.bodyIndex).Type)
		return &RequestBody{
			Required: true,
			Content:  map[string]MediaObj{"application/json": {Schema: &schema}},
		}

	case catForm:
		schema := JSONSchema{Type: "object", Properties: make(map[string]JSONSchema)}
		for i := range rs.params {
			r := &rs.params[i]
			if r.src != srcForm {
				continue
			}
			prop := paramSchema(r)
			prop.Description = r.doc
			schema.Properties[r.name] = prop
			if r.required {
				schema.Required = append(schema.Required, r.name)
			}
		}
		contentType := "application/x-www-form-urlencoded"
		if rs.multipart {
			contentType = "multipart/form-data"
		}
		return &RequestBody{
			Required: len(schema.Required) > 0,
			Content:  map[string]MediaObj{contentType: {Schema: &schema}},
		}
	}

	return nil
}

// toOpenAPIPath converts a Go 1.22 pattern like "/users/{id}" to
// an OpenAPI path. Wildcard and end-anchor markers are dropped.
func toOpenAPIPath(pattern string) string {
	result := strings.TrimSuffix(pattern, "{$}")
	return strings.ReplaceAll(result, "...", "")
}

// operationID derives an identifier like "getPersonDetailPersonId" from the
// method and pattern.
func operationID(method, pattern string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	upper := true
	for _, c := range toOpenAPIPath(pattern) {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			upper = true
			continue
		}
		if upper {
			c = unicode.ToUpper(c)
			upper = false
		}
		b.WriteRune(c)
	}
	return b.String()
}

// statusToString converts an HTTP status code to its string representation.
func statusToString(code int) string {
	return strconv.Itoa(code)
}
