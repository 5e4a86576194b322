package compiler

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxCommentSize is 16KB per reviewer comment.
	DefaultMaxCommentSize = 16 * 1024
	// EnvMaxCommentSize is the environment variable to override the default
	EnvMaxCommentSize = "IAEE_MAX_COMMENT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeText cleans free text by enforcing the size limit, validating
// UTF-8 and stripping control characters other than newline, tab and
// carriage return. Comments end up in Markdown and terminals, so ANSI
// escapes, NUL and BEL are removed.
func SanitizeText(input string) (string, error) {
	limit := maxCommentSize()
	if len(input) > limit {
		// Rejected rather than truncated so a report never silently loses text.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxCommentSize() int {
	if val := os.Getenv(EnvMaxCommentSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxCommentSize
}
