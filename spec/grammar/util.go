package grammar

import "strings"

var rep = strings.NewReplacer(
	`.`, `\.`,
	`*`, `\*`,
	`+`, `\+`,
	`?`, `\?`,
	`|`, `\|`,
	`(`, `\(`,
	`)`, `\)`,
	`[`, `\[`,
	`]`, `\]`,
	`\`, `\\`,
)

// EscapePattern escapes the special characters.
// For example, EscapePattern(`+`) returns `\+`.
func EscapePattern(s string) string {
	return rep.Replace(s)
}

// TerminalPattern returns the pattern a terminal is recognized by.
func (t *TerminalDescription) TerminalPattern() string {
	if t.Pattern != "" {
		return t.Pattern
	}
	return EscapePattern(t.Name)
}
