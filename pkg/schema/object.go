package schema

import (
	"sort"
	"strings"
)

// Schema is a map of field names to their expected types.
// Example: {"id": String(), "label": String(), "max": Optional(Number())}
type Schema map[string]Type

// Fields returns the field names in a stable order.
func (s Schema) Fields() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ObjectType validates string-keyed maps against a Schema.
// Fields not declared by the schema are dropped from the parsed output.
type ObjectType struct {
	fields Schema
}

// Object creates an object type from a schema.
func Object(fields Schema) *ObjectType {
	return &ObjectType{fields: fields}
}

// Extend returns a new object type with extra fields; fields that already
// exist are replaced.
func (t *ObjectType) Extend(fields Schema) *ObjectType {
	merged := make(Schema, len(t.fields)+len(fields))
	for name, typ := range t.fields {
		merged[name] = typ
	}
	for name, typ := range fields {
		merged[name] = typ
	}
	return &ObjectType{fields: merged}
}

// Schema exposes the declared fields.
func (t *ObjectType) Schema() Schema {
	return t.fields
}

func (t *ObjectType) Name() string {
	parts := make([]string, 0, len(t.fields))
	for _, name := range t.fields.Fields() {
		parts = append(parts, name+": "+t.fields[name].Name())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t *ObjectType) Parse(value any, path Path) (any, error) {
	obj, ok := AsObject(value)
	if !ok {
		return nil, mismatch(path, "object", value)
	}

	var c collector
	out := make(map[string]any, len(t.fields))

	for _, name := range t.fields.Fields() {
		fieldType := t.fields[name]
		raw, exists := obj[name]
		if !exists {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			c.add(&ValidationError{Path: path.Key(name), Reason: "Required"})
			continue
		}

		parsed, err := fieldType.Parse(raw, path.Key(name))
		if err != nil {
			c.add(err)
			continue
		}
		out[name] = parsed
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolver maps discriminator values to variant types.
type Resolver interface {
	// Resolve returns the type registered for tag.
	Resolve(tag string) (Type, bool)
	// Tags lists the accepted discriminator values in a stable order.
	Tags() []string
}

// UnionType dispatches on a string discriminator field.
type UnionType struct {
	key      string
	resolver Resolver
}

// Union creates a discriminated union keyed by the given field.
func Union(key string, resolver Resolver) Type {
	return &UnionType{key: key, resolver: resolver}
}

func (t *UnionType) Name() string {
	return strings.Join(t.resolver.Tags(), " | ")
}

func (t *UnionType) Parse(value any, path Path) (any, error) {
	obj, ok := AsObject(value)
	if !ok {
		return nil, mismatch(path, "object", value)
	}

	tag, _ := obj[t.key].(string)
	variant, found := t.resolver.Resolve(tag)
	if !found {
		quoted := make([]string, 0, len(t.resolver.Tags()))
		for _, name := range t.resolver.Tags() {
			quoted = append(quoted, "'"+name+"'")
		}
		return nil, Fail(path.Key(t.key), obj[t.key],
			"Invalid discriminator value. Expected %s", strings.Join(quoted, " | "))
	}

	return variant.Parse(obj, path)
}
