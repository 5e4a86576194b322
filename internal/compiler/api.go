package compiler

import (
	"fmt"
	"strconv"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
)

func formatAPIBuilder(s *domain.APIBuilderSection, result any) string {
	b := newBlock(s.Title)
	answer, ok := schema.AsObject(result)
	if !ok {
		b.add("*No API defined*", "")
		return b.String()
	}

	endpoints, multi := NormalizeEndpoints(answer)
	if multi && len(endpoints) == 0 {
		b.add("*No endpoints defined*", "")
		return b.String()
	}

	for i, ep := range endpoints {
		if multi {
			if i > 0 {
				b.add("---", "")
			}
			b.add(fmt.Sprintf("#### %s %s", ep.Method, ep.Path))
		} else {
			b.add("```http", ep.Method+" "+ep.Path, "```")
		}
		writeEndpoint(b, ep)
		b.add("")
	}
	return b.String()
}

// writeEndpoint emits each present part of ep after its request line,
// every part preceded by a blank line.
func writeEndpoint(b *block, ep Endpoint) {
	if ep.Description != "" {
		b.add("", ep.Description)
	}
	if len(ep.PathParams) > 0 {
		b.add("", "**Path Parameters:**")
		for _, p := range ep.PathParams {
			b.add(fmt.Sprintf("- `%s` = `%s`", p.Key, p.Value))
		}
	}
	if len(ep.QueryParams) > 0 {
		b.add("", "**Query Parameters:**")
		for _, p := range ep.QueryParams {
			b.add(fmt.Sprintf("- `%s` = `%s`", p.Key, p.Value))
		}
	}
	if len(ep.Headers) > 0 {
		b.add("", "**Headers:**")
		for _, h := range ep.Headers {
			b.add(fmt.Sprintf("- `%s`: %s", h.Key, h.Value))
		}
	}
	if ep.Body != "" {
		b.add("", "**Request Body:**", "", "```json", prettyJSON(ep.Body), "```")
	}
	if ep.ResponseCode != 0 || ep.ResponseBody != "" {
		b.add("", responseLabel(ep.ResponseCode))
		if ep.ResponseBody != "" {
			b.add("", "```json", prettyJSON(ep.ResponseBody), "```")
		}
	}
}

func responseLabel(code float64) string {
	if code == 0 {
		return "**Response:**"
	}
	label := "**Expected Response:** " + strconv.FormatFloat(code, 'f', -1, 64)
	switch {
	case code >= 200 && code < 300:
		label += " ✓"
	case code >= 400:
		label += " ⚠️"
	}
	return label
}
