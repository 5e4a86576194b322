// Package schema provides a structural type system for parsing untyped documents.
//
// A Type parses an arbitrary decoded value (the output of encoding/json or
// yaml.v3 into `any`) and returns a cleaned copy: object fields that are not
// declared by the schema are dropped at every nesting level, numbers are
// normalised to float64 and every failure is reported with the path of the
// offending value.
//
// Basic usage:
//
//	endpoint := schema.Object(schema.Schema{
//	    "method":  schema.String(),
//	    "path":    schema.Optional(schema.String()),
//	    "headers": schema.Optional(schema.Slice(schema.Object(schema.Schema{
//	        "key":   schema.String(),
//	        "value": schema.String(),
//	    }))),
//	})
//
//	clean, err := schema.Parse(endpoint, raw)
//	if err != nil {
//	    for _, issue := range schema.ValidationErrors(err) {
//	        // issue.(*schema.ValidationError).Path, .Reason
//	    }
//	}
//
// Objects can be extended, which is how variants share a common base:
//
//	base := schema.Object(schema.Schema{"id": schema.String(), "type": schema.String()})
//	info := base.Extend(schema.Schema{"type": schema.Literal("info"), "content": schema.String()})
//
// Tagged unions dispatch on a discriminator field through a Resolver, so the
// set of variants can live outside this package (see pkg/registry).
//
// Custom validators can be registered for domain-specific checks:
//
//	positive := schema.Custom("positive", func(v any) error {
//	    n, ok := v.(float64)
//	    if !ok || n <= 0 {
//	        return fmt.Errorf("must be positive")
//	    }
//	    return nil
//	})
//
// The package has no dependencies beyond the Go standard library.
package schema
