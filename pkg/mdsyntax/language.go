package mdsyntax

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// LanguageText is reported when no language can be determined.
const LanguageText = "text"

//nolint:gochecknoglobals // Read-only classifier candidates.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

type languageHint struct {
	lang  string
	match func(content []byte) bool
}

// Hints are checked in order; the first match wins.
//
//nolint:gochecknoglobals // Read-only detection table.
var languageHints = []languageHint{
	{"go", func(c []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(c), []byte("package "))
	}},
	{"python", func(c []byte) bool {
		s := string(c)
		return (strings.Contains(s, "def ") && strings.Contains(s, "):")) ||
			strings.Contains(s, "__name__")
	}},
	{"html", func(c []byte) bool {
		lower := bytes.ToLower(bytes.TrimSpace(c))
		return bytes.Contains(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
	}},
	{"json", func(c []byte) bool {
		t := bytes.TrimSpace(c)
		return (bytes.HasPrefix(t, []byte("{")) || bytes.HasPrefix(t, []byte("["))) &&
			bytes.Contains(t, []byte(`"`))
	}},
	{"dockerfile", func(c []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(c), []byte("FROM ")) &&
			bytes.Contains(c, []byte("\nRUN "))
	}},
	{"sql", func(c []byte) bool {
		upper := strings.ToUpper(strings.TrimSpace(string(c)))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(c []byte) bool {
		return bytes.Contains(c, []byte("fn main()")) || bytes.Contains(c, []byte("println!"))
	}},
}

// DetectLanguage guesses the language of a code block body. It returns
// LanguageText when nothing is confident enough.
func DetectLanguage(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LanguageText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalizeLanguage(lang)
	}

	for _, hint := range languageHints {
		if hint.match(content) {
			return hint.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalizeLanguage(lang)
	}
	return LanguageText
}

func normalizeLanguage(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
