package compiler

import (
	"strings"
	"testing"

	"github.com/aretw0/iaee/internal/validator"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base(id, sectionType, title string) domain.SectionBase {
	return domain.SectionBase{ID: id, Type: sectionType, Title: title}
}

func TestCompile_Scenario(t *testing.T) {
	exp, err := validator.Validate(map[string]any{
		"id":     "scenario",
		"title":  "T",
		"author": "A",
		"sections": []any{
			map[string]any{"id": "s1", "type": "choice", "options": []any{map[string]any{"id": "x", "label": "X"}}},
			map[string]any{"id": "s2", "type": "decision"},
		},
	})
	require.NoError(t, err)

	md := Compile(exp, domain.Results{"s1": "x", "s2": true}, nil)

	want := "# T\n\n*By A*\n\n---\n\n" +
		"\n- X (x)\n" +
		"\n" +
		"\n✅ **Status:** Approved\n"
	assert.Equal(t, want, md)
}

func TestCompile_Header(t *testing.T) {
	exp := &domain.Experience{
		Title:       "Sprint Review",
		Description: "Testing info formatting",
		Sections: []domain.Section{
			&domain.DecisionSection{SectionBase: base("d", domain.TypeDecision, "")},
		},
	}

	md := Compile(exp, nil, nil)

	assert.True(t, strings.HasPrefix(md, "# Sprint Review\n\nTesting info formatting\n\n---\n\n"), md)
	assert.NotContains(t, md, "*By")
	assert.Contains(t, md, "❌ **Status:** Rejected")
}

func TestCompile_BlockOrder(t *testing.T) {
	exp := &domain.Experience{
		Title: "Order",
		Sections: []domain.Section{
			&domain.InfoSection{SectionBase: base("a", domain.TypeInfo, "First"), Content: "1"},
			&domain.TextReviewSection{SectionBase: base("b", domain.TypeTextReview, "Second")},
			&domain.DecisionSection{SectionBase: base("c", domain.TypeDecision, "Third")},
		},
	}

	md := Compile(exp, nil, nil)

	first := strings.Index(md, "### First")
	second := strings.Index(md, "### Second")
	third := strings.Index(md, "### Third")
	require.True(t, first >= 0 && second >= 0 && third >= 0, md)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestCompile_Idempotent(t *testing.T) {
	exp := kitchenSink()
	results := kitchenSinkResults()
	comments := domain.Comments{"s-choice": "Why Vue?", "s-decision": "ignored"}

	first := Compile(exp, results, comments)
	second := Compile(exp, results, comments)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(first, "**Reviewer Comment:**"))
}

func TestCompile_SkipsBlankRenders(t *testing.T) {
	c := New()
	c.Register("blank", func(domain.Section, any) string { return "  \n" })

	exp := &domain.Experience{
		Title: "Blank",
		Sections: []domain.Section{
			&domain.InfoSection{SectionBase: base("x", "blank", "")},
		},
	}

	assert.Equal(t, "# Blank\n\n---\n", c.Compile(exp, nil, nil))
}

func TestSection_Comment(t *testing.T) {
	info := &domain.InfoSection{SectionBase: base("i", domain.TypeInfo, "Intro"), Content: "Hello\nWorld"}

	out := New().Section(info, nil, "Looks good\nShip it")

	want := "### Intro\n\n> Hello\n> World\n" +
		"> **Reviewer Comment:**\n> Looks good\n> Ship it\n\n"
	assert.Equal(t, want, out)
}

func TestCompile_CommentBetweenSections(t *testing.T) {
	exp := &domain.Experience{
		Title:  "Release Review",
		Author: "Platform Team",
		Sections: []domain.Section{
			&domain.ChoiceSection{
				SectionBase: base("env", domain.TypeChoice, "Target"),
				Options:     []domain.Option{{ID: "prod", Label: "Production"}},
			},
			&domain.DecisionSection{SectionBase: base("go", domain.TypeDecision, "Ship it?")},
		},
	}

	out := Compile(exp, domain.Results{"env": "prod", "go": "yes"}, domain.Comments{"env": "Canary first"})

	want := "# Release Review\n\n*By Platform Team*\n\n---\n\n" +
		"### Target\n\n- Production (prod)\n" +
		"> **Reviewer Comment:**\n> Canary first\n\n\n" +
		"### Ship it?\n\n✅ **Status:** Approved\n"
	assert.Equal(t, want, out)
}

func TestSection_BlankCommentOmitted(t *testing.T) {
	info := &domain.InfoSection{SectionBase: base("i", domain.TypeInfo, ""), Content: "x"}

	assert.NotContains(t, New().Section(info, nil, "  \n "), "Reviewer Comment")
}

func TestSection_DecisionIgnoresComment(t *testing.T) {
	d := &domain.DecisionSection{SectionBase: base("d", domain.TypeDecision, "Final")}

	out := New().Section(d, true, "Please reconsider")

	assert.NotContains(t, out, "Reviewer Comment")
	assert.NotContains(t, out, "Please reconsider")
}

func TestSection_UnknownType(t *testing.T) {
	c := New()

	t.Run("unregistered tag", func(t *testing.T) {
		s := &domain.InfoSection{SectionBase: base("mystery-1", "mystery", "")}
		assert.Equal(t, "### mystery-1\n\n*Unknown section type: mystery*\n\n", c.Section(s, nil, ""))
	})

	t.Run("title preferred over id", func(t *testing.T) {
		s := &domain.InfoSection{SectionBase: base("mystery-1", "mystery", "Mystery")}
		assert.Contains(t, c.Section(s, nil, ""), "### Mystery\n")
	})

	t.Run("variant mismatch", func(t *testing.T) {
		s := &domain.InfoSection{SectionBase: base("odd", domain.TypeChoice, "")}
		assert.Equal(t, "### odd\n\n*Unknown section type: choice*\n\n", c.Section(s, "x", ""))
	})
}

func TestCompiler_SupportsBuiltins(t *testing.T) {
	c := New()
	for _, typ := range []string{
		domain.TypeInfo, domain.TypeChoice, domain.TypeRank, domain.TypeTextReview,
		domain.TypeDecision, domain.TypeKanban, domain.TypeImageChoice, domain.TypeAPIBuilder,
		domain.TypeDataMapper, domain.TypeLiveComponent, domain.TypeNumericInputs,
		domain.TypeCardDeck, domain.TypeCodeSelector,
	} {
		assert.True(t, c.Supports(typ), typ)
	}
	assert.False(t, c.Supports("mystery"))
}

func kitchenSink() *domain.Experience {
	ceiling := 100.0
	return &domain.Experience{
		ID:     "kitchen",
		Title:  "Kitchen Sink",
		Author: "QA",
		Sections: []domain.Section{
			&domain.InfoSection{SectionBase: base("s-info", domain.TypeInfo, "Info"), Content: "Read me"},
			&domain.ChoiceSection{SectionBase: base("s-choice", domain.TypeChoice, "Framework"),
				Options: []domain.Option{{ID: "react", Label: "React"}, {ID: "vue", Label: "Vue"}}},
			&domain.RankSection{SectionBase: base("s-rank", domain.TypeRank, "Rank"),
				Items: []domain.Option{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}},
			&domain.KanbanSection{SectionBase: base("s-kanban", domain.TypeKanban, "Board"),
				Columns: []domain.KanbanColumn{{ID: "todo", Label: "To Do"}},
				Items:   []domain.KanbanItem{{ID: "k1", Label: "Card", ColumnID: "todo"}}},
			&domain.APIBuilderSection{SectionBase: base("s-api", domain.TypeAPIBuilder, "API")},
			&domain.NumericInputsSection{SectionBase: base("s-num", domain.TypeNumericInputs, "Budget"),
				Items: []domain.NumericItem{{ID: "x", Label: "X", Max: &ceiling}}},
			&domain.CardDeckSection{SectionBase: base("s-deck", domain.TypeCardDeck, "Deck")},
			&domain.DecisionSection{SectionBase: base("s-decision", domain.TypeDecision, "Decision")},
		},
	}
}

func kitchenSinkResults() domain.Results {
	return domain.Results{
		"s-choice":   []any{"vue"},
		"s-rank":     []any{"b", "a"},
		"s-kanban":   map[string]any{"todo": []any{"k1"}},
		"s-api":      map[string]any{"endpoints": []any{map[string]any{"method": "GET", "path": "/a", "pathParams": map[string]any{"z": "1", "a": "2"}}}},
		"s-num":      map[string]any{"x": 7},
		"s-deck":     []any{map[string]any{"id": "c1", "zeta": "z", "alpha": "a", "tags": []any{"x", "y"}}},
		"s-decision": "yes",
	}
}
