package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"time"
)

// maxMultipartMemory is the maximum memory used for multipart form parsing (32 MB).
const maxMultipartMemory = 32 << 20

// requestCategory describes how a request type should be decoded.
type requestCategory int

const (
	catVoid     requestCategory = iota // Void: no params, no body
	catBodyOnly                        // entire struct is the body (no param tags, no Body field)
	catParams                          // has param tags but no Body field
	catMixed                           // has Body field (params from tagged fields, body from Body)
	catForm                            // has form tags (urlencoded or multipart binding)
)

// classifyRequest determines how a request type should be decoded.
func classifyRequest(t reflect.Type) requestCategory {
	if t == reflect.TypeFor[Void]() {
		return catVoid
	}
	if hasFormTags(t) {
		return catForm
	}
	if hasBodyField(t) {
		return catMixed
	}
	if hasParamTags(t) {
		return catParams
	}
	return catBodyOnly
}

// decodeRequest creates a new Req value, populates it from the HTTP request
// and evaluates the rule table. Every failing field is reported in a single
// 422 problem; errors that already carry a status (413, 415) are returned
// as they are.
func decodeRequest[Req any](r *http.Request, rs *ruleSet, codecs *codecRegistry) (*Req, error) {
	req := new(Req)
	if rs.cat == catVoid {
		return req, nil
	}

	root := reflect.ValueOf(req).Elem()
	var errs []ValidationError

	if rs.cat == catForm {
		if err := parseForm(r, rs.multipart); err != nil {
			if isTooLarge(err) {
				return nil, bodyTooLarge(err)
			}
			return nil, ValidationProblem(ValidationError{
				Field:   "form",
				Message: fmt.Errorf("%w: %w", ErrBindForm, err).Error(),
			})
		}
	}

	for i := range rs.params {
		bindParam(r, &rs.params[i], root, &errs)
	}

	if rs.cat == catBodyOnly || rs.cat == catMixed {
		target := root
		if rs.bodyIndex != nil {
			target = root.FieldByIndex(rs.bodyIndex)
		}

		tree, err := decodeBody(r, target.Addr().Interface(), codecs)
		if err != nil && ErrorStatus(err) != http.StatusInternalServerError {
			return nil, err
		}

		// A typed JSON decode keeps going past a mistyped key, so the rule
		// table still runs and names every failing field.
		unbound := 0
		if (err == nil || tree != nil) && target.Kind() == reflect.Struct {
			unbound = checkBody(rs.body, target, tree, &errs)
		}
		if err != nil && unbound == 0 {
			errs = append(errs, bodyError(err))
		}
	}

	if len(errs) > 0 {
		return nil, ValidationProblem(errs...)
	}
	return req, nil
}

// bindParam reads one path, query, header, cookie or form value into its
// field and checks it.
func bindParam(r *http.Request, ru *rule, root reflect.Value, errs *[]ValidationError) {
	field := root.FieldByIndex(ru.index)

	if ru.src == srcForm && isFileType(ru.typ) {
		bindFile(r, ru, field, errs)
		return
	}

	vals := paramValues(r, ru)
	if len(vals) == 0 && ru.hasDef {
		vals = []string{ru.def}
	}
	if len(vals) == 0 {
		if ru.required {
			*errs = append(*errs, ValidationError{Field: ru.loc, Message: "field required"})
		}
		return
	}

	var err error
	if field.Kind() == reflect.Slice {
		err = setFieldValues(field, vals)
	} else {
		err = setFieldValue(field, vals[0])
	}
	if err != nil {
		*errs = append(*errs, ValidationError{
			Field:   ru.loc,
			Message: "must be a valid " + typeName(field.Type()),
			Value:   ru.shown(vals[0]),
		})
		return
	}

	ru.check(reflect.Indirect(field), errs)
}

// paramValues returns the raw values for a parameter. Empty values count
// as missing.
func paramValues(r *http.Request, ru *rule) []string {
	var vals []string

	//exhaustive:ignore
	switch ru.src {
	case srcPath:
		vals = []string{r.PathValue(ru.name)}
	case srcQuery:
		vals = r.URL.Query()[ru.name]
	case srcHeader:
		vals = r.Header.Values(ru.name)
	case srcCookie:
		if c, err := r.Cookie(ru.name); err == nil {
			vals = []string{c.Value}
		}
	case srcForm:
		vals = r.PostForm[ru.name]
	}

	out := vals[:0:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// bindFile binds FileUpload, *FileUpload and []FileUpload fields.
func bindFile(r *http.Request, ru *rule, field reflect.Value, errs *[]ValidationError) {
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[ru.name]
	}
	if len(headers) == 0 {
		if ru.required {
			*errs = append(*errs, ValidationError{Field: ru.loc, Message: "field required"})
		}
		return
	}

	switch field.Type() {
	case reflect.TypeFor[FileUpload]():
		field.Set(reflect.ValueOf(newFileUpload(headers[0])))
	case reflect.TypeFor[*FileUpload]():
		up := newFileUpload(headers[0])
		field.Set(reflect.ValueOf(&up))
	case reflect.TypeFor[[]FileUpload]():
		uploads := make([]FileUpload, 0, len(headers))
		for _, h := range headers {
			uploads = append(uploads, newFileUpload(h))
		}
		field.Set(reflect.ValueOf(uploads))
		ru.check(field, errs)
	}
}

// parseForm parses an urlencoded or multipart body into r.PostForm.
func parseForm(r *http.Request, wantFile bool) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	if wantFile && r.ContentLength > 0 {
		return fmt.Errorf("expected multipart/form-data, got %q", mediaType)
	}
	return r.ParseForm()
}

// decodeBody decodes the request body into target with the decoder matching
// the Content-Type. For JSON it also returns the generic decoded form used
// for presence and shape checks, even when the typed decode failed.
func decodeBody(r *http.Request, target any, codecs *codecRegistry) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		if isTooLarge(err) {
			return nil, bodyTooLarge(err)
		}
		return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	ct := r.Header.Get("Content-Type")
	dec, ok := codecs.decoderFor(ct)
	if !ok {
		return nil, Errorf(http.StatusUnsupportedMediaType, "unsupported content type %q", ct)
	}

	if _, isJSON := dec.(jsonCodec); isJSON {
		return decodeJSON(data, target)
	}

	if err := dec.Decode(bytes.NewReader(data), target); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
	}
	return nil, nil
}

// decodeJSON accepts exactly one JSON value. The generic tree is decoded
// first so that a syntax error or trailing data fails before any field is
// bound.
func decodeJSON(data []byte, target any) (any, error) {
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var tree any
	if err := d.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
	}
	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrBindBody)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return tree, fmt.Errorf("%w: %w", ErrBindBody, err)
	}
	return tree, nil
}

// bodyError turns a body decode failure nothing in the rule table could
// pin to a field into an error on the body as a whole.
func bodyError(err error) ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ValidationError{Field: "body", Message: "must be a valid " + typeName(typeErr.Type)}
	}
	return ValidationError{Field: "body", Message: err.Error()}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func bodyTooLarge(err error) error {
	var mbe *http.MaxBytesError
	errors.As(err, &mbe)
	return Errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", mbe.Limit)
}

// setFieldValue sets a reflect.Value from a string, supporting common types.
// Pointer fields are allocated.
func setFieldValue(field reflect.Value, value string) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := setFieldValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	if field.Type() == reflect.TypeFor[time.Time]() {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}
	return nil
}

// setFieldValues fills a slice field from repeated parameter values.
func setFieldValues(field reflect.Value, values []string) error {
	out := reflect.MakeSlice(field.Type(), len(values), len(values))
	for i, v := range values {
		if err := setFieldValue(out.Index(i), v); err != nil {
			return err
		}
	}
	field.Set(out)
	return nil
}

// typeName names a Go type the way a client reads it in error messages.
func typeName(t reflect.Type) string {
	t = indirectType(t)
	switch t {
	case reflect.TypeFor[time.Duration]():
		return "duration"
	case reflect.TypeFor[time.Time]():
		return "date-time"
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array of " + typeName(t.Elem())
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return "string"
	}
}
