package personalizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/pipelineerror"
)

// Render substitutes name for the placeholder in tpl. "{{" and "}}" stand
// for literal braces. Any other brace usage is a *pipelineerror.FormatError.
func Render(tpl models.Template, name string) (string, error) {
	var b strings.Builder
	err := walk(string(tpl),
		func(lit string) { b.WriteString(lit) },
		func() { b.WriteString(name) })
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Validate checks the placeholder syntax of tpl without rendering it.
func Validate(tpl models.Template) error {
	return walk(string(tpl), func(string) {}, func() {})
}

// Placeholders counts the placeholder occurrences in tpl. Escaped braces do
// not count.
func Placeholders(tpl models.Template) (int, error) {
	n := 0
	if err := walk(string(tpl), func(string) {}, func() { n++ }); err != nil {
		return 0, err
	}
	return n, nil
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func walk(s string, literal func(string), placeholder func()) error {
	for i := 0; i < len(s); {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				literal("{")
				i += 2
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return formatError(s, i, "unclosed '{'")
			}
			key := s[i+1 : i+1+end]
			switch {
			case key == "":
				return formatError(s, i, "empty placeholder")
			case strings.IndexByte(key, '{') >= 0:
				return formatError(s, i, "nested '{'")
			case key != models.PlaceholderKey:
				return formatError(s, i, fmt.Sprintf("unknown placeholder %q", key))
			}
			placeholder()
			i += end + 2
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				literal("}")
				i += 2
				continue
			}
			return formatError(s, i, "unmatched '}'")
		default:
			j := strings.IndexAny(s[i:], "{}")
			if j < 0 {
				literal(s[i:])
				return nil
			}
			literal(s[i : i+j])
			i += j
		}
	}
	return nil
}

func formatError(tpl string, pos int, reason string) error {
	return &pipelineerror.FormatError{Template: tpl, Position: pos, Reason: reason}
}
