package compiler

import (
	"testing"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func render(s domain.Section, result any) string {
	return New().Section(s, result, "")
}

func TestFormatInfo(t *testing.T) {
	s := &domain.InfoSection{SectionBase: base("i", domain.TypeInfo, "Welcome"), Content: "This is informational content for the user."}

	assert.Equal(t, "### Welcome\n\n> This is informational content for the user.\n", render(s, nil))
}

func TestFormatChoice(t *testing.T) {
	s := &domain.ChoiceSection{
		SectionBase: base("c", domain.TypeChoice, "Select Framework"),
		Options: []domain.Option{
			{ID: "react", Label: "React"},
			{ID: "vue", Label: "Vue"},
			{ID: "svelte", Label: "Svelte"},
		},
	}

	tests := []struct {
		name   string
		result any
		want   string
	}{
		{"legacy single", "react", "### Select Framework\n\n- React (react)\n"},
		{"legacy multi", []any{"react", "svelte"}, "### Select Framework\n\n- React (react)\n- Svelte (svelte)\n"},
		{"typed slice", []string{"vue"}, "### Select Framework\n\n- Vue (vue)\n"},
		{"custom option", []any{"solid"}, "### Select Framework\n\n- solid (solid)\n"},
		{"tagged", []any{
			map[string]any{"id": "react", "label": "React", "selected": false},
			map[string]any{"id": "qwik", "label": "Qwik", "selected": true},
		}, "### Select Framework\n\n- Qwik (qwik)\n"},
		{"nothing", nil, "### Select Framework\n\n*No selections*\n"},
		{"empty string", "", "### Select Framework\n\n*No selections*\n"},
		{"empty array", []any{}, "### Select Framework\n\n*No selections*\n"},
		{"none selected", []any{map[string]any{"id": "react", "selected": false}}, "### Select Framework\n\n*No selections*\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(s, tt.result))
		})
	}
}

func TestFormatChoice_EncodingsRenderIdentically(t *testing.T) {
	s := &domain.ChoiceSection{
		SectionBase: base("c", domain.TypeChoice, "Pick"),
		Options:     []domain.Option{{ID: "react", Label: "React"}, {ID: "vue", Label: "Vue"}},
	}

	legacy := render(s, "react")
	current := render(s, []any{
		map[string]any{"id": "react", "label": "React", "selected": true},
		map[string]any{"id": "vue", "label": "Vue", "selected": false},
	})

	assert.Equal(t, legacy, current)
}

func TestFormatRank(t *testing.T) {
	s := &domain.RankSection{
		SectionBase: base("r", domain.TypeRank, "Prioritize Features"),
		Items: []domain.Option{
			{ID: "search", Label: "Search"},
			{ID: "export", Label: "Export"},
			{ID: "auth", Label: "Authentication"},
		},
	}

	assert.Equal(t,
		"### Prioritize Features\n\n1. Authentication (auth)\n2. Search (search)\n3. Export (export)\n",
		render(s, []any{"auth", "search", "export"}))

	assert.Equal(t,
		"### Prioritize Features\n\n1. Export (export)\n2. New (new)\n",
		render(s, []any{
			map[string]any{"id": "export", "label": "Export"},
			map[string]any{"id": "new", "label": "New"},
		}))

	assert.Equal(t, "### Prioritize Features\n\n*No rankings*\n", render(s, "auth"))
}

func TestFormatTextReview(t *testing.T) {
	s := &domain.TextReviewSection{
		SectionBase: base("t", domain.TypeTextReview, "Feedback"),
		Content:     "Please provide your feedback.",
	}

	assert.Equal(t,
		"### Feedback\n\n> Please provide your feedback.\n\n**User Feedback:**\n\nGreat experience overall!\n",
		render(s, "Great experience overall!"))
	assert.Equal(t,
		"### Feedback\n\n> Please provide your feedback.\n\n*No feedback provided*\n",
		render(s, "   "))

	bare := &domain.TextReviewSection{SectionBase: base("t", domain.TypeTextReview, "")}
	assert.Equal(t, "\n*No feedback provided*\n", render(bare, 42))
}

func TestFormatDecision(t *testing.T) {
	s := &domain.DecisionSection{
		SectionBase: base("d", domain.TypeDecision, "Final Decision"),
		Message:     "Ready to proceed?",
	}

	approved := "### Final Decision\n\n✅ **Status:** Approved\n\n*Ready to proceed?*\n"
	rejected := "### Final Decision\n\n❌ **Status:** Rejected\n\n*Ready to proceed?*\n"

	for _, result := range []any{true, "approved", "yes"} {
		assert.Equal(t, approved, render(s, result), "%#v", result)
	}
	for _, result := range []any{false, "no", nil, "true", 1, "Approved"} {
		assert.Equal(t, rejected, render(s, result), "%#v", result)
	}

	plain := &domain.DecisionSection{SectionBase: base("d", domain.TypeDecision, "")}
	assert.Equal(t, "\n✅ **Status:** Approved\n", render(plain, true))
}

func TestFormatKanban(t *testing.T) {
	s := &domain.KanbanSection{
		SectionBase: base("k", domain.TypeKanban, "Feature Backlog"),
		Columns: []domain.KanbanColumn{
			{ID: "must", Label: "Must Have"},
			{ID: "nice", Label: "Nice to Have"},
			{ID: "later", Label: "Later"},
		},
		Items: []domain.KanbanItem{
			{ID: "search", Label: "Search", ColumnID: "must"},
			{ID: "auth", Label: "Authentication", ColumnID: "must"},
			{ID: "export", Label: "Export", ColumnID: "nice"},
		},
	}

	result := map[string]any{
		"must": []any{"search", "auth"},
		"nice": []any{"export", "new-1", "ghost"},
		domain.KeyItems: []any{
			map[string]any{"id": "new-1", "content": "Dark mode", "description": "Requested by users"},
			map[string]any{"id": "auth", "label": "SSO"},
		},
	}

	want := "### Feature Backlog\n\n" +
		"#### Must Have\n- Search\n- SSO\n\n" +
		"#### Nice to Have\n- Export\n- Dark mode\n  > Requested by users\n- ghost\n\n" +
		"#### Later\n*No items*\n"
	assert.Equal(t, want, render(s, result))

	empty := render(s, nil)
	assert.Contains(t, empty, "#### Must Have\n*No items*\n")
}

func TestFormatImageChoice(t *testing.T) {
	s := &domain.ImageChoiceSection{
		SectionBase: base("img", domain.TypeImageChoice, "Select Theme"),
		Images: []domain.Image{
			{ID: "dark", Src: "/dark.png", Label: "Dark Mode"},
			{ID: "light", Src: "/light.png"},
		},
	}

	assert.Equal(t, "### Select Theme\n\n**Selected:** Dark Mode (dark)\n", render(s, "dark"))
	assert.Equal(t, "### Select Theme\n\n**Selected:** light (light)\n", render(s, "light"))
	assert.Equal(t, "### Select Theme\n\n**Selected:** sepia\n", render(s, "sepia"))
	assert.Equal(t, "### Select Theme\n\n*No selection*\n", render(s, ""))
}

func TestFormatDataMapper(t *testing.T) {
	s := &domain.DataMapperSection{
		SectionBase: base("m", domain.TypeDataMapper, "Map Data Sources"),
		Sources:     []domain.Option{{ID: "user-api", Label: "User API"}, {ID: "orders-api", Label: "Orders API"}},
		Targets:     []domain.Option{{ID: "profile", Label: "Profile Component"}},
	}

	want := "### Map Data Sources\n\n| Source | Target |\n|--------|--------|\n" +
		"| User API | Profile Component |\n" +
		"| Orders API | orders-table |\n" +
		"| billing-api | Profile Component |\n"
	assert.Equal(t, want, render(s, []any{
		map[string]any{"sourceId": "user-api", "targetId": "profile"},
		map[string]any{"sourceId": "orders-api", "targetId": "orders-table"},
		map[string]any{"sourceId": "billing-api", "targetId": "profile"},
	}))
	assert.Equal(t, "### Map Data Sources\n\n*No mappings*\n", render(s, map[string]any{}))
}

func TestFormatLiveComponent(t *testing.T) {
	s := &domain.LiveComponentSection{SectionBase: base("l", domain.TypeLiveComponent, "Edit Component"), DefaultCode: "<div />"}

	code := "<Card className='p-4'>\n  <HeroImage />\n</Card>"
	assert.Equal(t, "### Edit Component\n\n```tsx\n"+code+"\n```\n", render(s, code))
	assert.Equal(t, "### Edit Component\n\n*No code generated*\n", render(s, nil))
	assert.Equal(t, "### Edit Component\n\n*No code generated*\n", render(s, []any{"x"}))
}

func TestFormatNumericInputs(t *testing.T) {
	ceiling := 100.0
	s := &domain.NumericInputsSection{
		SectionBase: base("n", domain.TypeNumericInputs, "Budget Allocation"),
		Items: []domain.NumericItem{
			{ID: "feature-a", Label: "Feature A", Max: &ceiling},
			{ID: "feature-b", Label: "Feature B"},
		},
	}

	tests := []struct {
		name   string
		result any
		want   string
	}{
		{
			name:   "legacy map against template",
			result: map[string]any{"feature-a": 75, "feature-b": 50},
			want:   "### Budget Allocation\n\n- **Feature A:** 75 (max: 100)\n- **Feature B:** 50\n\n**Total:** 125\n",
		},
		{
			name:   "missing and non-numeric values count as zero",
			result: map[string]any{"feature-a": "lots"},
			want:   "### Budget Allocation\n\n- **Feature A:** 0 (max: 100)\n- **Feature B:** 0\n\n**Total:** 0\n",
		},
		{
			name: "legacy sidecar",
			result: map[string]any{
				domain.KeyItems: []any{map[string]any{"id": "infra", "label": "Infra", "max": 5000}},
				"infra":         1234.5,
			},
			want: "### Budget Allocation\n\n- **Infra:** 1,234.5 (max: 5,000)\n\n**Total:** 1,234.5\n",
		},
		{
			name: "array",
			result: []any{
				map[string]any{"id": "a", "label": "A", "value": 10, "max": 0},
				map[string]any{"id": "b", "label": "B"},
			},
			want: "### Budget Allocation\n\n- **A:** 10\n- **B:** 0\n\n**Total:** 10\n",
		},
		{
			name:   "empty array",
			result: []any{},
			want:   "### Budget Allocation\n\n*No items*\n",
		},
		{
			name:   "absent",
			result: nil,
			want:   "### Budget Allocation\n\n*No values provided*\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(s, tt.result))
		})
	}
}

func TestFormatCardDeck(t *testing.T) {
	s := &domain.CardDeckSection{
		SectionBase: base("cd", domain.TypeCardDeck, "Personas"),
		Template:    map[string]any{"name": "", "role": ""},
	}

	want := "### Personas\n\n" +
		"#### Card 1\n\n- **name:** Admin User\n- **role:** Administrator\n- **tags:** ops, billing\n\n" +
		"#### Card 2\n\n- **name:** End User\n- **role:** Customer\n"
	assert.Equal(t, want, render(s, []any{
		map[string]any{"id": "p1", "role": "Administrator", "name": "Admin User", "tags": []any{"ops", "billing"}},
		map[string]any{"id": "p2", "name": "End User", "role": "Customer"},
	}))
	assert.Equal(t, "### Personas\n\n*No cards created*", render(s, nil))

	assert.Equal(t, "### Personas\n\n#### Card 1\n\n- **name:** null\n- **tags:** a, \n",
		render(s, []any{map[string]any{"name": nil, "tags": []any{"a", nil}}}))
}

func TestFormatCodeSelector(t *testing.T) {
	s := &domain.CodeSelectorSection{
		SectionBase: base("cs", domain.TypeCodeSelector, "Pick an implementation"),
		Language:    "go",
		Options: []domain.CodeOption{
			{ID: "loop", Label: "Loop", Code: "for {}"},
			{ID: "rec", Label: "Recursion", Code: "f()"},
		},
	}

	assert.Equal(t,
		"### Pick an implementation\n\n**Selected:** Loop (`loop`)\n\n```go\nfor {}\n```\n",
		render(s, map[string]any{"selectedId": "loop"}))

	assert.Equal(t,
		"### Pick an implementation\n\n**Selected:** Recursion (`rec`)\n\n```go\ng()\n```\n\n*Code was modified from original*\n",
		render(s, map[string]any{"selectedId": "rec", "code": map[string]any{"rec": "g()"}}))

	assert.Equal(t,
		"### Pick an implementation\n\n**Selected:** Loop (`loop`)\n\n```go\nfor {}\n```\n",
		render(s, map[string]any{"selectedId": "loop", "code": map[string]any{"loop": ""}}))

	for _, result := range []any{nil, "loop", map[string]any{}, map[string]any{"selectedId": ""}} {
		assert.Equal(t, "### Pick an implementation\n\n*No selection*\n", render(s, result), "%#v", result)
	}

	untyped := &domain.CodeSelectorSection{SectionBase: base("cs", domain.TypeCodeSelector, "")}
	assert.Equal(t,
		"\n**Selected:** ghost (`ghost`)\n\n```text\nx\n```\n\n*Code was modified from original*\n",
		render(untyped, map[string]any{"selectedId": "ghost", "code": map[string]any{"ghost": "x"}}))
}
