package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/iaee/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// block accumulates the lines of one rendered section.
type block struct {
	lines []string
}

// newBlock starts a section block with an optional H3 title and the blank
// line every section body opens with.
func newBlock(title string) *block {
	b := &block{}
	if title != "" {
		b.add("### " + title)
	}
	b.add("")
	return b
}

func (b *block) add(lines ...string) {
	b.lines = append(b.lines, lines...)
}

func (b *block) String() string {
	return strings.Join(b.lines, "\n")
}

// truthy follows the loose truthiness results were authored against:
// nil, false, zero, NaN and "" are false, every other value (including
// empty slices and maps) is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if n, ok := schema.AsNumber(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

// display renders a loosely typed value as text.
// Objects and arrays are rendered as compact JSON.
func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if n, ok := schema.AsNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}

// labelOr returns v as a label, or fallback when v is empty.
func labelOr(v any, fallback string) string {
	if s := display(v); s != "" {
		return s
	}
	return fallback
}

var printer = message.NewPrinter(language.English)

// formatNumber groups thousands and keeps at most three fraction digits.
func formatNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// quote prefixes every line of text with a Markdown block-quote marker.
func quote(text string) string {
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

// prettyJSON re-indents text when it parses as JSON and returns it
// untouched otherwise.
func prettyJSON(text string) string {
	var compact, out bytes.Buffer
	if err := json.Compact(&compact, []byte(text)); err != nil {
		return text
	}
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return text
	}
	return out.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeLoose maps a result object onto out, converting scalar kinds
// where the client sent e.g. numbers for labels.
func decodeLoose(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
