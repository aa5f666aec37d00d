package api

import (
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// rule is one row of a request type's validation table: where a value comes
// from, what it must look like, and what to use when it is missing.
type rule struct {
	name  string   // wire name
	loc   string   // location reported in errors, e.g. "query.age"
	src   source   // where the value is read from
	index []int    // field index from the request root (or the body root)
	path  []string // JSON key path inside the body
	typ   reflect.Type
	doc   string

	required bool
	def      string
	hasDef   bool

	minLength, maxLength *int
	minItems, maxItems   *int
	pattern              *regexp.Regexp

	minimum, maximum                   *bound
	exclusiveMinimum, exclusiveMaximum *bound

	enum   []string
	format string
}

// bound is a numeric limit with its tag text kept for messages.
type bound struct {
	value float64
	raw   string
}

// ruleSet is the compiled table for one request type.
type ruleSet struct {
	cat       requestCategory
	params    []rule
	body      []rule
	bodyIndex []int // nil when the whole request is the body
	multipart bool  // a form field carries a file
}

var ruleCache sync.Map // reflect.Type → *ruleSet

// rulesFor returns the compiled rule table for t, building it on first use.
// Tag mistakes panic: they are programming errors found at registration.
func rulesFor(t reflect.Type) *ruleSet {
	if rs, ok := ruleCache.Load(t); ok {
		return rs.(*ruleSet)
	}
	rs, _ := ruleCache.LoadOrStore(t, compileRules(t))
	return rs.(*ruleSet)
}

func compileRules(t reflect.Type) *ruleSet {
	t = indirectType(t)
	rs := &ruleSet{cat: classifyRequest(t)}

	//exhaustive:ignore
	switch rs.cat {
	case catVoid:
		return rs
	case catBodyOnly:
		if t.Kind() == reflect.Struct {
			rs.body = bodyRules(t, nil, nil)
		}
		return rs
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if f.Name == "Body" && rs.cat == catMixed {
			rs.bodyIndex = f.Index
			if f.Type.Kind() == reflect.Struct {
				rs.body = bodyRules(f.Type, nil, nil)
			}
			continue
		}

		name, src, ok := fieldSource(f)
		if !ok {
			continue
		}

		r := newRule(f, name, src.String()+"."+name, src)
		r.index = f.Index
		if src == srcForm && isFileType(f.Type) {
			rs.multipart = true
		}
		rs.params = append(rs.params, r)
	}

	return rs
}

// bodyRules walks a body struct depth-first. Embedded structs without a JSON
// name are flattened the way encoding/json flattens them.
func bodyRules(t reflect.Type, index []int, path []string) []rule {
	var rules []rule
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		idx := append(slices.Clone(index), i)

		if isInlined(f) {
			rules = append(rules, bodyRules(f.Type, idx, path)...)
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		p := append(slices.Clone(path), name)
		r := newRule(f, name, "body."+strings.Join(p, "."), srcBody)
		r.index = idx
		r.path = p
		rules = append(rules, r)

		if f.Type.Kind() == reflect.Struct && !isScalarStruct(f.Type) {
			rules = append(rules, bodyRules(f.Type, idx, p)...)
		}
	}
	return rules
}

// isScalarStruct reports struct types that bind as a single value.
func isScalarStruct(t reflect.Type) bool {
	return t == reflect.TypeFor[time.Time]() || t == reflect.TypeFor[FileUpload]()
}

func newRule(f reflect.StructField, name, loc string, src source) rule {
	r := rule{
		name:     name,
		loc:      loc,
		src:      src,
		typ:      f.Type,
		doc:      f.Tag.Get("doc"),
		required: f.Tag.Get("required") == "true" || src == srcPath,
	}
	r.def, r.hasDef = f.Tag.Lookup("default")

	r.minLength = intTag(f, loc, "minLength")
	r.maxLength = intTag(f, loc, "maxLength")
	r.minItems = intTag(f, loc, "minItems")
	r.maxItems = intTag(f, loc, "maxItems")
	r.minimum = boundTag(f, loc, "minimum")
	r.maximum = boundTag(f, loc, "maximum")
	r.exclusiveMinimum = boundTag(f, loc, "exclusiveMinimum")
	r.exclusiveMaximum = boundTag(f, loc, "exclusiveMaximum")

	if tag := f.Tag.Get("pattern"); tag != "" {
		re, err := regexp.Compile(tag)
		if err != nil {
			panic(fmt.Sprintf("api: %s: invalid pattern tag %q: %v", loc, tag, err))
		}
		r.pattern = re
	}

	if tag := f.Tag.Get("enum"); tag != "" {
		r.enum = strings.Split(tag, ",")
	} else if values, ok := enumValues(f.Type); ok {
		r.enum = values
	}

	r.format = f.Tag.Get("format")

	return r
}

func intTag(f reflect.StructField, loc, tag string) *int {
	raw := f.Tag.Get(tag)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		panic(fmt.Sprintf("api: %s: invalid %s tag %q", loc, tag, raw))
	}
	return &n
}

func boundTag(f reflect.StructField, loc, tag string) *bound {
	raw := f.Tag.Get(tag)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		panic(fmt.Sprintf("api: %s: invalid %s tag %q", loc, tag, raw))
	}
	return &bound{value: v, raw: raw}
}

// enumValues returns the closed value set of an Enum type (or pointer to one).
func enumValues(t reflect.Type) ([]string, bool) {
	t = indirectType(t)
	if !t.Implements(reflect.TypeFor[Enum]()) {
		return nil, false
	}
	e, ok := reflect.Zero(t).Interface().(Enum)
	if !ok {
		return nil, false
	}
	return e.EnumValues(), true
}

// formats maps OpenAPI format names to the validator tags that check them.
// Formats not listed here are documentation only.
var formats = map[string]string{
	"email":    "email",
	"uri":      "uri",
	"uuid":     "uuid",
	"hostname": "hostname",
	"ipv4":     "ipv4",
	"ipv6":     "ipv6",
}

var formatValidator = validator.New()

// check appends a ValidationError for every constraint v violates. v must
// already be dereferenced.
func (r *rule) check(v reflect.Value, errs *[]ValidationError) {
	fail := func(msg string, val any) {
		*errs = append(*errs, ValidationError{Field: r.loc, Message: msg, Value: r.shown(val)})
	}

	if v.Kind() == reflect.String {
		val := v.String()
		n := utf8.RuneCountInString(val)
		if r.minLength != nil && n < *r.minLength {
			fail(fmt.Sprintf("must be at least %d characters", *r.minLength), val)
		}
		if r.maxLength != nil && n > *r.maxLength {
			fail(fmt.Sprintf("must be at most %d characters", *r.maxLength), val)
		}
		if r.pattern != nil && !r.pattern.MatchString(val) {
			fail(fmt.Sprintf("must match pattern %s", r.pattern), val)
		}
		if len(r.enum) > 0 && !slices.Contains(r.enum, val) {
			fail(fmt.Sprintf("must be one of [%s]", strings.Join(r.enum, ",")), val)
		}
		if tag, ok := formats[r.format]; ok {
			if err := formatValidator.Var(val, tag); err != nil {
				fail(fmt.Sprintf("must be a valid %s", r.format), val)
			}
		}
	}

	if isNumericKind(v.Kind()) {
		n := toFloat64(v)
		if r.minimum != nil && n < r.minimum.value {
			fail("must be at least "+r.minimum.raw, v.Interface())
		}
		if r.maximum != nil && n > r.maximum.value {
			fail("must be at most "+r.maximum.raw, v.Interface())
		}
		if r.exclusiveMinimum != nil && n <= r.exclusiveMinimum.value {
			fail("must be greater than "+r.exclusiveMinimum.raw, v.Interface())
		}
		if r.exclusiveMaximum != nil && n >= r.exclusiveMaximum.value {
			fail("must be less than "+r.exclusiveMaximum.raw, v.Interface())
		}
	}

	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() != reflect.Uint8 {
		n := v.Len()
		if r.minItems != nil && n < *r.minItems {
			fail(fmt.Sprintf("must have at least %d items", *r.minItems), n)
		}
		if r.maxItems != nil && n > *r.maxItems {
			fail(fmt.Sprintf("must have at most %d items", *r.maxItems), n)
		}
	}
}

// shown returns the value to echo back in an error. Secrets are never
// echoed.
func (r *rule) shown(val any) any {
	if r.format == "password" {
		return nil
	}
	return val
}

// checkBody evaluates body rules against a decoded body and returns how many
// fields were not bound as sent, either for a wrong JSON type or a
// case-folded key. tree is the generic JSON form of the body (nil for other
// encodings): it tells an explicit zero apart from a missing key and still
// holds the values a failed typed decode left behind.
func checkBody(rules []rule, body reflect.Value, tree any, errs *[]ValidationError) int {
	if tree != nil && !jsonFits(body.Type(), tree) {
		*errs = append(*errs, ValidationError{Field: "body", Message: "must be a valid " + typeName(body.Type())})
		return 1
	}

	// The bound value of a field with a case-folded twin is whichever key
	// came last, so it is not checked.
	var folded map[string]bool
	if tree != nil {
		folded = checkKeyCase(rules, tree, errs)
	}

	var skip string
	mistyped := 0
	for i := range rules {
		r := &rules[i]
		if skip != "" && strings.HasPrefix(r.loc, skip) {
			continue
		}
		skip = ""

		if folded[r.loc] {
			skip = r.loc + "."
			continue
		}

		fv, ok := fieldByIndex(body, r.index)
		if !ok {
			continue
		}

		if val := nodeAt(tree, r.path); !jsonFits(r.typ, val) {
			*errs = append(*errs, ValidationError{Field: r.loc, Message: "must be a valid " + typeName(r.typ)})
			mistyped++
			skip = r.loc + "."
			continue
		}

		if !hasPath(tree, r.path) && fv.IsZero() {
			if fv.Kind() == reflect.Struct {
				skip = r.loc + "."
			}
			if r.hasDef && fv.CanSet() {
				if err := setFieldValue(fv, r.def); err == nil {
					continue
				}
			}
			if r.required {
				*errs = append(*errs, ValidationError{Field: r.loc, Message: "field required"})
			}
			continue
		}

		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				if r.required {
					*errs = append(*errs, ValidationError{Field: r.loc, Message: "field required"})
				}
				continue
			}
			fv = fv.Elem()
		}
		r.check(fv, errs)
	}
	return mistyped + len(folded)
}

// checkKeyCase rejects keys that only match a field when case is ignored.
// encoding/json binds them anyway, letting "PASSWORD" overwrite "password".
// It returns the locations of the fields such keys matched.
func checkKeyCase(rules []rule, tree any, errs *[]ValidationError) map[string]bool {
	var folded map[string]bool
	declared := make(map[string]bool, len(rules))
	for i := range rules {
		declared[rules[i].loc] = true
	}

	for i := range rules {
		r := &rules[i]
		parentPath := r.path[:len(r.path)-1]
		parent, ok := nodeAt(tree, parentPath).(map[string]any)
		if !ok {
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(parent)) {
			loc := strings.Join(append([]string{"body"}, append(slices.Clone(parentPath), key)...), ".")
			if key == r.name || declared[loc] || !strings.EqualFold(key, r.name) {
				continue
			}
			*errs = append(*errs, ValidationError{
				Field:   loc,
				Message: fmt.Sprintf("unknown field, did you mean %q", r.name),
			})
			if folded == nil {
				folded = make(map[string]bool)
			}
			folded[r.loc] = true
		}
	}
	return folded
}

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// jsonFits reports whether val, taken from a tree decoded with UseNumber,
// can be bound to a field of type t. Struct fields are left to their own
// rules; types with their own UnmarshalJSON are trusted.
func jsonFits(t reflect.Type, val any) bool {
	if val == nil {
		return true
	}
	t = indirectType(t)

	if t == reflect.TypeFor[time.Time]() {
		s, ok := val.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	}
	if reflect.PointerTo(t).Implements(jsonUnmarshalerType) {
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		_, ok := val.(string)
		return ok
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		_, ok := val.(string)
		return ok
	case reflect.Bool:
		_, ok := val.(bool)
		return ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := val.(json.Number)
		if !ok {
			return false
		}
		_, err := strconv.ParseInt(n.String(), 10, t.Bits())
		return err == nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := val.(json.Number)
		if !ok {
			return false
		}
		_, err := strconv.ParseUint(n.String(), 10, t.Bits())
		return err == nil
	case reflect.Float32, reflect.Float64:
		n, ok := val.(json.Number)
		if !ok {
			return false
		}
		_, err := strconv.ParseFloat(n.String(), t.Bits())
		return err == nil
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			_, ok := val.(string)
			return ok
		}
		items, ok := val.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			if !jsonFits(t.Elem(), item) {
				return false
			}
		}
		return true
	case reflect.Map:
		m, ok := val.(map[string]any)
		if !ok {
			return false
		}
		for _, item := range m {
			if !jsonFits(t.Elem(), item) {
				return false
			}
		}
		return true
	case reflect.Struct:
		_, ok := val.(map[string]any)
		return ok
	default:
		return true
	}
}

// fieldByIndex is reflect.Value.FieldByIndex without the panic on nil
// embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// hasPath reports whether tree holds a non-null value at path.
func hasPath(tree any, path []string) bool {
	return nodeAt(tree, path) != nil
}

// nodeAt returns the value at path in tree, or nil when any key is missing.
func nodeAt(tree any, path []string) any {
	node := tree
	for _, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		if node, ok = m[key]; !ok {
			return nil
		}
	}
	return node
}

func isNumericKind(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toFloat64(v reflect.Value) float64 {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default: // float32, float64
		return v.Float()
	}
}
