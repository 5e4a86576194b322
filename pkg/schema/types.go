package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for structural parsing.
// Implementations check a value and return its cleaned form.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[number]").
	Name() string
	// Parse checks value and returns a copy with undeclared object fields removed.
	// Failures are returned as an *AggregateError addressed relative to path.
	Parse(value any, path Path) (any, error)
}

// Parse runs t against value from the document root.
func Parse(t Type, value any) (any, error) {
	return t.Parse(value, nil)
}

// --- Built-in Type Implementations ---

// StringType accepts string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Parse(value any, path Path) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, mismatch(path, "string", value)
	}
	return s, nil
}

// NumberType accepts any numeric value and normalises it to float64.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Parse(value any, path Path) (any, error) {
	n, ok := AsNumber(value)
	if !ok {
		return nil, mismatch(path, "number", value)
	}
	return n, nil
}

// BoolType accepts boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Parse(value any, path Path) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, mismatch(path, "boolean", value)
	}
	return b, nil
}

// LiteralType accepts exactly one string value.
type LiteralType struct {
	value string
}

func (t *LiteralType) Name() string { return fmt.Sprintf("%q", t.value) }

func (t *LiteralType) Parse(value any, path Path) (any, error) {
	s, ok := value.(string)
	if !ok || s != t.value {
		return nil, Fail(path, value, "Invalid literal value, expected %q", t.value)
	}
	return s, nil
}

// AnyType accepts every value as-is.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Parse(value any, _ Path) (any, error) {
	return value, nil
}

// OptionalType marks an object field that may be absent.
// A present value must still satisfy the inner type.
type OptionalType struct {
	inner Type
}

func (t *OptionalType) Name() string { return t.inner.Name() + "?" }

func (t *OptionalType) Parse(value any, path Path) (any, error) {
	return t.inner.Parse(value, path)
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
	min, max int // max < 0 means unbounded
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Parse(value any, path Path) (any, error) {
	items, ok := AsSlice(value)
	if !ok {
		return nil, mismatch(path, "array", value)
	}

	var c collector
	out := make([]any, 0, len(items))
	for i, elem := range items {
		parsed, err := t.elemType.Parse(elem, path.Index(i))
		if err != nil {
			c.add(err)
			continue
		}
		out = append(out, parsed)
	}

	if len(items) < t.min {
		c.add(Fail(path, value, "Array must contain at least %d element(s)", t.min))
	}
	if t.max >= 0 && len(items) > t.max {
		c.add(Fail(path, value, "Array must contain at most %d element(s)", t.max))
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordType validates string-keyed maps whose values share one type.
type RecordType struct {
	valueType Type
}

func (t *RecordType) Name() string {
	return fmt.Sprintf("{string: %s}", t.valueType.Name())
}

func (t *RecordType) Parse(value any, path Path) (any, error) {
	obj, ok := AsObject(value)
	if !ok {
		return nil, mismatch(path, "object", value)
	}

	var c collector
	out := make(map[string]any, len(obj))
	for key, v := range obj {
		parsed, err := t.valueType.Parse(v, path.Key(key))
		if err != nil {
			c.add(err)
			continue
		}
		out[key] = parsed
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomType applies a user-defined validation function.
// The value is passed through unchanged when the function accepts it.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Parse(value any, path Path) (any, error) {
	if err := t.validate(value); err != nil {
		return nil, Fail(path, value, "%s", err.Error())
	}
	return value, nil
}

// --- Factory Functions ---

// String creates a string type.
func String() Type { return &StringType{} }

// Number creates a numeric type.
func Number() Type { return &NumberType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// Literal creates a type accepting only the given string.
func Literal(value string) Type { return &LiteralType{value: value} }

// Any creates a type that accepts everything.
func Any() Type { return &AnyType{} }

// Optional marks t as an optional object field.
func Optional(t Type) Type {
	if _, ok := t.(*OptionalType); ok {
		return t
	}
	return &OptionalType{inner: t}
}

// SliceOption constrains a slice type.
type SliceOption func(*SliceType)

// MinItems requires at least n elements.
func MinItems(n int) SliceOption {
	return func(t *SliceType) { t.min = n }
}

// MaxItems allows at most n elements.
func MaxItems(n int) SliceOption {
	return func(t *SliceType) { t.max = n }
}

// Slice creates a slice type for elements of the given type.
func Slice(elemType Type, opts ...SliceOption) Type {
	t := &SliceType{elemType: elemType, max: -1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record creates a map type whose values all satisfy valueType.
func Record(valueType Type) Type {
	return &RecordType{valueType: valueType}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// --- Value helpers ---

// AsObject reports whether v is a string-keyed map, converting the
// map[any]any shape some YAML decoders produce.
func AsObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// AsSlice reports whether v is a slice or array and returns its elements.
func AsSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// AsNumber reports whether v is numeric and returns it as float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// KindOf names the JSON kind of v for error messages.
func KindOf(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := AsNumber(v); ok {
		return "number"
	}
	if _, ok := AsObject(v); ok {
		return "object"
	}
	if _, ok := AsSlice(v); ok {
		return "array"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}

func mismatch(path Path, expected string, value any) error {
	return Fail(path, value, "Expected %s, received %s", expected, KindOf(value))
}
