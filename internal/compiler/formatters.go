package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
)

func formatInfo(s *domain.InfoSection, _ any) string {
	b := newBlock(s.Title)
	b.add(quote(s.Content), "")
	return b.String()
}

func formatChoice(s *domain.ChoiceSection, result any) string {
	b := newBlock(s.Title)
	picks := NormalizeChoice(s, result)
	if len(picks) == 0 {
		b.add("*No selections*")
	}
	for _, p := range picks {
		b.add(fmt.Sprintf("- %s (%s)", p.Label, p.ID))
	}
	b.add("")
	return b.String()
}

func formatRank(s *domain.RankSection, result any) string {
	b := newBlock(s.Title)
	picks := NormalizeRank(s, result)
	if len(picks) == 0 {
		b.add("*No rankings*")
	}
	for i, p := range picks {
		b.add(fmt.Sprintf("%d. %s (%s)", i+1, p.Label, p.ID))
	}
	b.add("")
	return b.String()
}

func formatTextReview(s *domain.TextReviewSection, result any) string {
	b := newBlock(s.Title)
	if s.Content != "" {
		b.add(quote(s.Content), "")
	}
	if text, ok := result.(string); ok && strings.TrimSpace(text) != "" {
		b.add("**User Feedback:**", "", text)
	} else {
		b.add("*No feedback provided*")
	}
	b.add("")
	return b.String()
}

// IsApproved reports whether a decision result counts as approval:
// boolean true or the strings "approved" and "yes".
func IsApproved(result any) bool {
	switch v := result.(type) {
	case bool:
		return v
	case string:
		return v == "approved" || v == "yes"
	}
	return false
}

func formatDecision(s *domain.DecisionSection, result any) string {
	b := newBlock(s.Title)
	if IsApproved(result) {
		b.add("✅ **Status:** Approved")
	} else {
		b.add("❌ **Status:** Rejected")
	}
	if s.Message != "" {
		b.add("", "*"+s.Message+"*")
	}
	b.add("")
	return b.String()
}

func formatKanban(s *domain.KanbanSection, result any) string {
	b := newBlock(s.Title)
	for _, lane := range NormalizeKanban(s, result) {
		b.add("#### " + lane.Label)
		if len(lane.Cards) == 0 {
			b.add("*No items*")
		}
		for _, card := range lane.Cards {
			b.add("- " + card.Content)
			if strings.TrimSpace(card.Description) != "" {
				b.add("  > " + card.Description)
			}
		}
		b.add("")
	}
	return b.String()
}

func formatImageChoice(s *domain.ImageChoiceSection, result any) string {
	b := newBlock(s.Title)
	if !truthy(result) {
		b.add("*No selection*")
	} else {
		id := display(result)
		line := "**Selected:** " + id
		for _, img := range s.Images {
			if img.ID == id {
				label := img.Label
				if label == "" {
					label = img.ID
				}
				line = fmt.Sprintf("**Selected:** %s (%s)", label, img.ID)
				break
			}
		}
		b.add(line)
	}
	b.add("")
	return b.String()
}

func formatDataMapper(s *domain.DataMapperSection, result any) string {
	b := newBlock(s.Title)
	connections, _ := schema.AsSlice(result)
	if len(connections) == 0 {
		b.add("*No mappings*")
	} else {
		b.add("| Source | Target |", "|--------|--------|")
		for _, raw := range connections {
			conn, _ := schema.AsObject(raw)
			source := resolve(s.Sources, display(conn["sourceId"]))
			target := resolve(s.Targets, display(conn["targetId"]))
			b.add(fmt.Sprintf("| %s | %s |", source.Label, target.Label))
		}
	}
	b.add("")
	return b.String()
}

func formatLiveComponent(s *domain.LiveComponentSection, result any) string {
	b := newBlock(s.Title)
	if code, ok := result.(string); ok && code != "" {
		b.add("```tsx", code, "```")
	} else {
		b.add("*No code generated*")
	}
	b.add("")
	return b.String()
}

func formatNumericInputs(s *domain.NumericInputsSection, result any) string {
	b := newBlock(s.Title)
	if !truthy(result) {
		b.add("*No values provided*", "")
		return b.String()
	}

	rows := NormalizeNumeric(s, result)
	if len(rows) == 0 {
		b.add("*No items*", "")
		return b.String()
	}

	var total float64
	for _, row := range rows {
		total += row.Value
		line := fmt.Sprintf("- **%s:** %s", row.Label, formatNumber(row.Value))
		if row.Max != nil && *row.Max != 0 {
			line += fmt.Sprintf(" (max: %s)", formatNumber(*row.Max))
		}
		b.add(line)
	}
	b.add("", "**Total:** "+formatNumber(total), "")
	return b.String()
}

func formatCardDeck(s *domain.CardDeckSection, result any) string {
	b := newBlock(s.Title)
	cards, _ := schema.AsSlice(result)
	if len(cards) == 0 {
		b.add("*No cards created*")
	}
	for i, raw := range cards {
		b.add(fmt.Sprintf("#### Card %d", i+1), "")
		card, _ := schema.AsObject(raw)
		for _, key := range sortedKeys(card) {
			if key == "id" {
				continue
			}
			b.add(fmt.Sprintf("- **%s:** %s", key, cardValue(card[key])))
		}
		b.add("")
	}
	return b.String()
}

// cardValue joins array fields with commas. A null field renders as
// "null"; null array elements render empty.
func cardValue(v any) string {
	if v == nil {
		return "null"
	}
	items, ok := schema.AsSlice(v)
	if !ok {
		return display(v)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = display(item)
	}
	return strings.Join(parts, ", ")
}

func formatCodeSelector(s *domain.CodeSelectorSection, result any) string {
	b := newBlock(s.Title)
	answer, ok := schema.AsObject(result)
	if !ok || !truthy(answer["selectedId"]) {
		b.add("*No selection*", "")
		return b.String()
	}

	selectedID := display(answer["selectedId"])
	var option *domain.CodeOption
	for i := range s.Options {
		if s.Options[i].ID == selectedID {
			option = &s.Options[i]
			break
		}
	}

	label, original := selectedID, ""
	if option != nil {
		original = option.Code
		if option.Label != "" {
			label = option.Label
		}
	}

	code := original
	if edits, ok := schema.AsObject(answer["code"]); ok {
		if edited, ok := edits[selectedID].(string); ok && edited != "" {
			code = edited
		}
	}

	lang := s.Language
	if lang == "" {
		lang = "text"
	}

	b.add(fmt.Sprintf("**Selected:** %s (`%s`)", label, selectedID), "")
	b.add("```"+lang, code, "```")
	if code != original {
		b.add("", "*Code was modified from original*")
	}
	b.add("")
	return b.String()
}
