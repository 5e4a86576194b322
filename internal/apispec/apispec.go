// Package apispec turns the endpoints captured by api-builder sections into
// an OpenAPI 3 document.
package apispec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/iaee/internal/compiler"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// OpenAPIVersion is written into every exported document.
const OpenAPIVersion = "3.0.3"

var (
	colonParam = regexp.MustCompile(`^:([A-Za-z0-9_]+)$`)
	braceParam = regexp.MustCompile(`^\{([A-Za-z0-9_]+)\}$`)
	nonWord    = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// methods are the verbs an OpenAPI path item can hold.
var methods = map[string]bool{
	http.MethodGet: true, http.MethodPut: true, http.MethodPost: true,
	http.MethodDelete: true, http.MethodOptions: true, http.MethodHead: true,
	http.MethodPatch: true, http.MethodTrace: true,
}

// Build collects the endpoints of every api-builder section in exp and
// returns them as one validated OpenAPI document. Sections without a
// result contribute nothing; a document with no endpoints is still valid.
func Build(ctx context.Context, exp *domain.Experience, results domain.Results) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       exp.Title,
			Description: exp.Description,
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}

	ids := map[string]int{}
	for _, section := range exp.Sections {
		s, ok := section.(*domain.APIBuilderSection)
		if !ok {
			continue
		}
		if s.BasePath != "" && len(doc.Servers) == 0 {
			doc.Servers = openapi3.Servers{&openapi3.Server{URL: s.BasePath}}
		}

		result, ok := schema.AsObject(results[s.ID])
		if !ok {
			continue
		}
		endpoints, _ := compiler.NormalizeEndpoints(result)
		for _, ep := range endpoints {
			method := strings.ToUpper(ep.Method)
			if !methods[method] {
				continue
			}
			path, names := Path(ep.Path)
			op := operation(s, ep, names)
			op.OperationID = operationID(method, path, ids)
			doc.AddOperation(path, method, op)
		}
	}

	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// Path converts an Express-style path ("/users/:id") to an OpenAPI
// template ("/users/{id}") and returns the parameter names in order.
func Path(p string) (string, []string) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	segments := strings.Split(p, "/")
	var names []string
	for i, seg := range segments {
		if m := colonParam.FindStringSubmatch(seg); m != nil {
			segments[i] = "{" + m[1] + "}"
			names = append(names, m[1])
		} else if m := braceParam.FindStringSubmatch(seg); m != nil {
			names = append(names, m[1])
		}
	}
	return strings.Join(segments, "/"), names
}

func operation(s *domain.APIBuilderSection, ep compiler.Endpoint, pathNames []string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = ep.Description
	if s.Title != "" {
		op.Tags = []string{s.Title}
	}

	examples := map[string]string{}
	for _, p := range ep.PathParams {
		examples[p.Key] = p.Value
	}
	for _, name := range unique(pathNames) {
		param := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
		if v, ok := examples[name]; ok && v != "" {
			param.Example = v
		}
		op.AddParameter(param)
	}
	seen := map[string]bool{}
	for _, q := range ep.QueryParams {
		if seen["query:"+q.Key] {
			continue
		}
		seen["query:"+q.Key] = true
		param := openapi3.NewQueryParameter(q.Key).WithSchema(openapi3.NewStringSchema())
		param.Example = q.Value
		op.AddParameter(param)
	}
	for _, h := range ep.Headers {
		key := "header:" + strings.ToLower(h.Key)
		if seen[key] {
			continue
		}
		seen[key] = true
		param := openapi3.NewHeaderParameter(h.Key).WithSchema(openapi3.NewStringSchema())
		param.Example = h.Value
		op.AddParameter(param)
	}

	if ep.Body != "" {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithContent(content(ep.Body)),
		}
	}

	op.AddResponse(0, openapi3.NewResponse().WithDescription("Unexpected response"))
	if ep.ResponseCode != 0 {
		code := int(ep.ResponseCode)
		resp := openapi3.NewResponse().WithDescription(responseDescription(s, ep.ResponseCode))
		if ep.ResponseBody != "" {
			resp = resp.WithContent(content(ep.ResponseBody))
		}
		op.AddResponse(code, resp)
	}
	return op
}

func unique(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// content describes a body by example: JSON bodies get an inferred schema,
// anything else is plain text.
func content(body string) openapi3.Content {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		mt := openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema())
		mt.Example = body
		return openapi3.Content{"text/plain": mt}
	}
	mt := openapi3.NewMediaType().WithSchema(infer(v))
	mt.Example = v
	return openapi3.Content{"application/json": mt}
}

// infer builds the narrowest schema the example satisfies.
func infer(v any) *openapi3.Schema {
	switch val := v.(type) {
	case map[string]any:
		s := openapi3.NewObjectSchema()
		for key, prop := range val {
			s.WithProperty(key, infer(prop))
		}
		return s
	case []any:
		if len(val) == 0 {
			return openapi3.NewArraySchema().WithItems(&openapi3.Schema{})
		}
		return openapi3.NewArraySchema().WithItems(infer(val[0]))
	case string:
		return openapi3.NewStringSchema()
	case float64:
		if val == float64(int64(val)) {
			return openapi3.NewIntegerSchema()
		}
		return openapi3.NewFloat64Schema()
	case bool:
		return openapi3.NewBoolSchema()
	default:
		return &openapi3.Schema{Nullable: true}
	}
}

func responseDescription(s *domain.APIBuilderSection, code float64) string {
	for _, rc := range s.ResponseCodes {
		if rc.Code == code && rc.Label != "" {
			return rc.Label
		}
	}
	if text := http.StatusText(int(code)); text != "" {
		return text
	}
	return "Response " + strconv.Itoa(int(code))
}

func operationID(method, path string, seen map[string]int) string {
	slug := strings.Trim(nonWord.ReplaceAllString(path, "_"), "_")
	if slug == "" {
		slug = "root"
	}
	base := strings.ToLower(method) + "_" + slug
	seen[base]++
	if n := seen[base]; n > 1 {
		return fmt.Sprintf("%s_%d", base, n)
	}
	return base
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalYAML renders doc as YAML via its JSON form, which is what
// kin-openapi defines the wire shape by.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}
