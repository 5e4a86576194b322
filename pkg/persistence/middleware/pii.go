package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// PIIConfig selects what is masked before a report is stored.
type PIIConfig struct {
	// Keys masks whole result entries (at any depth) and comments whose
	// key matches one of the patterns.
	Keys []string
	// Values masks matching substrings in the Markdown, comments and
	// string results.
	Values []string
}

type piiMiddleware struct {
	next   ports.ReportStore
	keys   []*regexp.Regexp
	values []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks personal data in reports.
// Patterns are compiled with regexp.MustCompile.
func NewPIIMiddleware(config PIIConfig) Middleware {
	m := &piiMiddleware{
		keys:   compileAll(config.Keys),
		values: compileAll(config.Values),
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &piiMiddleware{next: next, keys: m.keys, values: m.values}
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func (m *piiMiddleware) Save(ctx context.Context, report *domain.Report) error {
	// 1. Deep Clone to avoid side effects on the report returned to the caller.
	cloned := *report
	cloned.Results = deepCopyMap(report.Results)
	if report.Comments != nil {
		cloned.Comments = make(domain.Comments, len(report.Comments))
	}

	// 2. Mask PII
	m.maskMap(cloned.Results)
	for id, text := range report.Comments {
		if m.matchKey(id) {
			cloned.Comments[id] = Mask
			continue
		}
		cloned.Comments[id] = m.maskText(text)
	}
	cloned.Markdown = m.maskText(report.Markdown)

	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, reportID string) (*domain.Report, error) {
	return m.next.Load(ctx, reportID)
}

func (m *piiMiddleware) Delete(ctx context.Context, reportID string) error {
	return m.next.Delete(ctx, reportID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

func (m *piiMiddleware) matchKey(key string) bool {
	for _, p := range m.keys {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) maskText(s string) string {
	for _, p := range m.values {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func (m *piiMiddleware) maskMap(obj map[string]any) {
	for k, v := range obj {
		if m.matchKey(k) {
			obj[k] = Mask
			continue
		}
		obj[k] = m.maskValue(v)
	}
}

func (m *piiMiddleware) maskValue(v any) any {
	switch val := v.(type) {
	case string:
		return m.maskText(val)
	case map[string]any:
		m.maskMap(val)
		return val
	case []any:
		for i, item := range val {
			val[i] = m.maskValue(item)
		}
		return val
	default:
		return v
	}
}
