package iaee_test

import (
	"errors"
	"fmt"

	"github.com/aretw0/iaee"
	"github.com/aretw0/iaee/pkg/domain"
)

// ExampleCompile validates an experience from decoded data and renders the
// results a user submitted for it.
func ExampleCompile() {
	exp, err := iaee.Validate(map[string]any{
		"id":     "release",
		"title":  "Release Review",
		"author": "Platform Team",
		"sections": []any{
			map[string]any{
				"id":    "env",
				"type":  "choice",
				"title": "Target",
				"options": []any{
					map[string]any{"id": "staging", "label": "Staging"},
					map[string]any{"id": "prod", "label": "Production"},
				},
			},
			map[string]any{"id": "go", "type": "decision", "title": "Ship it?"},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	results := domain.Results{"env": "prod", "go": "yes"}
	fmt.Print(iaee.Compile(exp, results, nil))

	// Output:
	// # Release Review
	//
	// *By Platform Team*
	//
	// ---
	//
	// ### Target
	//
	// - Production (prod)
	//
	// ### Ship it?
	//
	// ✅ **Status:** Approved
}

// ExampleValidate shows the business rule every experience must satisfy.
func ExampleValidate() {
	_, err := iaee.Validate(map[string]any{
		"id":     "draft",
		"title":  "No gate",
		"author": "A",
		"sections": []any{
			map[string]any{"id": "intro", "type": "info", "content": "Hi"},
		},
	})

	fmt.Println(errors.Is(err, domain.ErrInvalidExperience))
	fmt.Println(err)

	// Output:
	// true
	// invalid experience: field "sections": Experience must contain exactly one DecisionSection
}
