// Package compiler renders a validated experience and its captured results
// as a Markdown report.
package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/iaee/pkg/domain"
)

// Formatter renders one section with its raw result.
// Formatters must be total: every result shape yields some output.
type Formatter func(section domain.Section, result any) string

// format adapts a variant-specific formatter to the Formatter signature.
// A section whose concrete type does not match falls back to the unknown
// block instead of panicking.
func format[S domain.Section](fn func(S, any) string) Formatter {
	return func(section domain.Section, result any) string {
		typed, ok := section.(S)
		if !ok {
			return formatUnknown(section)
		}
		return fn(typed, result)
	}
}

// Compiler dispatches sections to formatters by type tag.
type Compiler struct {
	formatters map[string]Formatter
}

// New returns a compiler with formatters for every built-in section type.
func New() *Compiler {
	return &Compiler{
		formatters: map[string]Formatter{
			domain.TypeInfo:          format(formatInfo),
			domain.TypeChoice:        format(formatChoice),
			domain.TypeRank:          format(formatRank),
			domain.TypeTextReview:    format(formatTextReview),
			domain.TypeDecision:      format(formatDecision),
			domain.TypeKanban:        format(formatKanban),
			domain.TypeImageChoice:   format(formatImageChoice),
			domain.TypeAPIBuilder:    format(formatAPIBuilder),
			domain.TypeDataMapper:    format(formatDataMapper),
			domain.TypeLiveComponent: format(formatLiveComponent),
			domain.TypeNumericInputs: format(formatNumericInputs),
			domain.TypeCardDeck:      format(formatCardDeck),
			domain.TypeCodeSelector:  format(formatCodeSelector),
		},
	}
}

// Register installs or replaces the formatter for a section type.
// It must not be called concurrently with Compile.
func (c *Compiler) Register(sectionType string, f Formatter) {
	c.formatters[sectionType] = f
}

// Supports reports whether a formatter is installed for sectionType.
func (c *Compiler) Supports(sectionType string) bool {
	_, ok := c.formatters[sectionType]
	return ok
}

// Compile renders exp as Markdown. results and comments are keyed by
// section ID and may be nil. The output is a pure function of the inputs.
func (c *Compiler) Compile(exp *domain.Experience, results domain.Results, comments domain.Comments) string {
	lines := []string{"# " + exp.Title, ""}
	if exp.Author != "" {
		lines = append(lines, "*By "+exp.Author+"*", "")
	}
	if exp.Description != "" {
		lines = append(lines, exp.Description, "")
	}
	lines = append(lines, "---", "")

	for _, section := range exp.Sections {
		id := section.Header().ID
		out := c.Section(section, results[id], comments[id])
		if strings.TrimSpace(out) != "" {
			lines = append(lines, out)
		}
	}

	return strings.Join(lines, "\n")
}

// Section renders a single section followed by its reviewer comment.
// Decision sections never carry a comment block.
func (c *Compiler) Section(section domain.Section, result any, comment string) string {
	header := section.Header()

	var out string
	if f, ok := c.formatters[header.Type]; ok {
		out = f(section, result)
	} else {
		out = formatUnknown(section)
	}

	if header.Type != domain.TypeDecision {
		out += formatComment(comment)
	}
	return out
}

var defaultCompiler = New()

// Compile renders exp with the built-in formatters.
func Compile(exp *domain.Experience, results domain.Results, comments domain.Comments) string {
	return defaultCompiler.Compile(exp, results, comments)
}

func formatComment(comment string) string {
	if strings.TrimSpace(comment) == "" {
		return ""
	}
	return "> **Reviewer Comment:**\n" + quote(comment) + "\n\n"
}

func formatUnknown(section domain.Section) string {
	header := section.Header()
	title := header.Title
	if title == "" {
		title = header.ID
	}
	return fmt.Sprintf("### %s\n\n*Unknown section type: %s*\n\n", title, header.Type)
}
