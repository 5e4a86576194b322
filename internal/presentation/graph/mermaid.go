package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/iaee/pkg/domain"
)

// GraphOverlay contains submission data to visualize on the graph.
type GraphOverlay struct {
	AnsweredSections []string
	CurrentSection   string
}

// GenerateMermaid produces a Mermaid flowchart of the steps of an experience.
// It applies semantic styling:
// - Start: ((Circle)) labelled with the experience title
// - Read-only (info, text-review): [Rectangle]
// - Code (live-component, code-selector, api-builder): [[Subroutine]]
// - Decision: {Rhombus} branching to approved/rejected
// - Other input: [/Parallelogram/]
// It also applies overlay styles (Answered/Current) if provided.
func GenerateMermaid(exp *domain.Experience, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("    start((\"%s\"))\n", escape(exp.Title)))

	prev := "start"
	for _, section := range exp.Sections {
		h := section.Header()
		safeID := "s_" + sanitizeMermaidID(h.ID)

		label := h.ID
		if h.Title != "" {
			label = h.Title
		}
		label = fmt.Sprintf("%s <br/> <i>%s</i>", escape(label), h.Type)

		opener, closer := "[/", "/]"
		switch h.Type {
		case domain.TypeInfo, domain.TypeTextReview:
			opener, closer = "[", "]"
		case domain.TypeLiveComponent, domain.TypeCodeSelector, domain.TypeAPIBuilder:
			opener, closer = "[[", "]]"
		case domain.TypeDecision:
			opener, closer = "{", "}"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))

		if h.Type == domain.TypeDecision {
			sb.WriteString("    approved((\"✅ Approved\"))\n")
			sb.WriteString("    rejected((\"❌ Rejected\"))\n")
			sb.WriteString(fmt.Sprintf("    %s -- \"yes\" --> approved\n", safeID))
			sb.WriteString(fmt.Sprintf("    %s -. \"no\" .-> rejected\n", safeID))
		}
		prev = safeID
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef answered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.AnsweredSections {
			if _, ok := exp.Section(id); !ok {
				continue
			}
			safeID := "s_" + sanitizeMermaidID(id)
			if !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s answered;\n", safeID))
			}
		}

		if _, ok := exp.Section(overlay.CurrentSection); ok {
			sb.WriteString(fmt.Sprintf("    class s_%s current;\n", sanitizeMermaidID(overlay.CurrentSection)))
		}
	}

	return sb.String()
}

// Answered lists the section IDs with a non-nil result, in section order.
func Answered(exp *domain.Experience, results domain.Results) []string {
	var ids []string
	for _, s := range exp.Sections {
		if v, ok := results[s.Header().ID]; ok && v != nil {
			ids = append(ids, s.Header().ID)
		}
	}
	return ids
}

// Current returns the first section without a non-nil result, or "" when
// every section is answered.
func Current(exp *domain.Experience, results domain.Results) string {
	for _, s := range exp.Sections {
		if v, ok := results[s.Header().ID]; !ok || v == nil {
			return s.Header().ID
		}
	}
	return ""
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// sanitizeMermaidID keeps ASCII letters and digits and writes every other
// rune as _<hex>_, so distinct section IDs never share a node.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%x_", r)
		}
	}
	return sb.String()
}
