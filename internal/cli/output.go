package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/iaee/internal/validator"
)

// RuleWidth is the width of the rules printed around a report.
const RuleWidth = 80

// PrintIssues writes a validation failure as one `  - [path]: message`
// line per issue.
func PrintIssues(w io.Writer, source string, err error) {
	fmt.Fprintf(w, "\n❌ Validation Failed for %s:\n", source)
	for _, issue := range validator.Issues(err) {
		fmt.Fprintf(w, "  - [%s]: %s\n", strings.Join(issue.Path, "."), issue.Message)
	}
	fmt.Fprintln(w)
}

// PrintReport writes markdown between two `=` rules.
func PrintReport(w io.Writer, markdown string) {
	rule := strings.Repeat("=", RuleWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, markdown)
	fmt.Fprintln(w, rule)
}
