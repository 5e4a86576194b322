package validator

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/registry"
	"github.com/aretw0/iaee/pkg/schema"
	"gopkg.in/yaml.v3"
)

// DecisionRule is the message reported when an experience does not carry
// exactly one decision section.
const DecisionRule = "Experience must contain exactly one DecisionSection"

// Issue is the transport shape of a single validation failure.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Validator parses raw documents into typed experiences.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	registry *registry.Registry
	root     *schema.ObjectType
}

// New creates a validator dispatching sections through reg.
func New(reg *registry.Registry) *Validator {
	return &Validator{
		registry: reg,
		root: schema.Object(schema.Schema{
			"id":          schema.String(),
			"title":       schema.String(),
			"description": schema.Optional(schema.String()),
			"author":      schema.String(),
			"sections":    schema.Slice(schema.Union("type", reg)),
		}),
	}
}

// Default returns a validator over the built-in section variants.
func Default() *Validator {
	return New(registry.Default())
}

// Validate parses raw against the experience schema.
// Unknown fields are dropped at every level. On failure the returned error
// wraps domain.ErrInvalidExperience and a *schema.AggregateError listing
// every issue; no partial experience is returned.
func (v *Validator) Validate(raw any) (*domain.Experience, error) {
	parsed, err := v.root.Parse(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExperience, err)
	}
	doc := parsed.(map[string]any)
	sections := doc["sections"].([]any)

	decisions := 0
	for _, s := range sections {
		if s.(map[string]any)["type"] == domain.TypeDecision {
			decisions++
		}
	}
	if decisions != 1 {
		rule := schema.Fail(schema.Path{"sections"}, decisions, DecisionRule)
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExperience, rule)
	}

	exp := &domain.Experience{
		Sections: make([]domain.Section, 0, len(sections)),
	}
	exp.ID, _ = doc["id"].(string)
	exp.Title, _ = doc["title"].(string)
	exp.Description, _ = doc["description"].(string)
	exp.Author, _ = doc["author"].(string)

	for _, s := range sections {
		section, err := v.registry.Decode(s.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExperience, err)
		}
		exp.Sections = append(exp.Sections, section)
	}

	return exp, nil
}

// ValidateJSON decodes data as JSON and validates it.
func (v *Validator) ValidateJSON(data []byte) (*domain.Experience, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse experience JSON: %w", err)
	}
	return v.Validate(raw)
}

// ValidateYAML decodes data as YAML and validates it.
func (v *Validator) ValidateYAML(data []byte) (*domain.Experience, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse experience YAML: %w", err)
	}
	return v.Validate(raw)
}

// Validate parses raw with the default validator.
func Validate(raw any) (*domain.Experience, error) {
	return Default().Validate(raw)
}

// Issues flattens a validation error into transport records.
// Errors that carry no path information become a single root issue.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	errs := schema.ValidationErrors(err)
	if len(errs) == 0 {
		return []Issue{{Path: []string{}, Message: err.Error()}}
	}

	out := make([]Issue, 0, len(errs))
	for _, e := range errs {
		verr, ok := e.(*schema.ValidationError)
		if !ok {
			out = append(out, Issue{Path: []string{}, Message: e.Error()})
			continue
		}
		path := []string(verr.Path)
		if path == nil {
			path = []string{}
		}
		out = append(out, Issue{Path: path, Message: verr.Reason})
	}
	return out
}
