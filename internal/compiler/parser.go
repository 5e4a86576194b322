package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Submission is the payload the runtime UI posts when the user submits.
type Submission struct {
	Results  domain.Results
	Comments domain.Comments
}

// Parser converts raw result documents into compiler inputs.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseSubmission decodes a submit body. Results are taken from the
// "answers" object, else the "result" object, else the body itself.
// An optional "comments" object supplies reviewer comments.
func (p *Parser) ParseSubmission(data []byte) (*Submission, error) {
	var body map[string]any
	err := json.Unmarshal(data, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("failed to parse submission: body must be an object")
	}

	sub := &Submission{Results: domain.Results(body)}
	if answers, ok := schema.AsObject(body["answers"]); ok {
		sub.Results = answers
	} else if result, ok := schema.AsObject(body["result"]); ok {
		sub.Results = result
	}
	if sub.Comments, err = comments(body["comments"]); err != nil {
		return nil, err
	}
	return sub, nil
}

// ParseResults decodes a results document (JSON, or YAML when yamlInput).
func (p *Parser) ParseResults(data []byte, yamlInput bool) (domain.Results, error) {
	obj, err := decodeObject(data, yamlInput)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return domain.Results(obj), nil
}

// ParseComments decodes a comments document. Non-string values are dropped;
// strings are cleaned with SanitizeText.
func (p *Parser) ParseComments(data []byte, yamlInput bool) (domain.Comments, error) {
	obj, err := decodeObject(data, yamlInput)
	if err != nil {
		return nil, fmt.Errorf("failed to parse comments: %w", err)
	}
	return comments(obj)
}

func decodeObject(data []byte, yamlInput bool) (map[string]any, error) {
	var raw any
	var err error
	if yamlInput {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, err
	}
	obj, ok := schema.AsObject(raw)
	if !ok {
		return nil, fmt.Errorf("expected object, received %s", schema.KindOf(raw))
	}
	return obj, nil
}

func comments(v any) (domain.Comments, error) {
	obj, ok := schema.AsObject(v)
	if !ok {
		return nil, nil
	}
	out := make(domain.Comments, len(obj))
	for id, c := range obj {
		text, ok := c.(string)
		if !ok {
			continue
		}
		clean, err := SanitizeText(text)
		if err != nil {
			return nil, fmt.Errorf("comment %q: %w", id, err)
		}
		out[id] = clean
	}
	return out, nil
}
