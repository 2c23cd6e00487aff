package domain

import (
	"regexp"
	"strings"
)

type substitution struct {
	tag         string
	replacement string
}

// Literal tag spellings and their Markdown replacements, matched
// case-insensitively in one alternation pass. Nested or attributed tags are
// left alone.
var substitutions = []substitution{
	{"<p>", ""},
	{"</p>", ""},
	{"<strong>", "**"},
	{"</strong>", "**"},
	{"<b>", "**"},
	{"</b>", "**"},
	{"<u>", "#### "},
	{"</u>", ""},
	{"<em>", "*"},
	{"</em>", "*"},
	{"<blockquote>", "> "},
	{"</blockquote>", ""},
	{"<br><br>", "\n\n"},
}

var (
	substitutionPattern = buildSubstitutionPattern()
	substitutionTable   = buildSubstitutionTable()
)

func buildSubstitutionPattern() *regexp.Regexp {
	parts := make([]string, 0, len(substitutions))
	for _, s := range substitutions {
		parts = append(parts, regexp.QuoteMeta(s.tag))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, "|"))
}

func buildSubstitutionTable() map[string]string {
	out := make(map[string]string, len(substitutions))
	for _, s := range substitutions {
		out[s.tag] = s.replacement
	}
	return out
}

// Substitute rewrites the fixed tag vocabulary of the note editor.
func Substitute(markup string) string {
	return substitutionPattern.ReplaceAllStringFunc(markup, func(tag string) string {
		return substitutionTable[strings.ToLower(tag)]
	})
}
