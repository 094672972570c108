// Package langdetect guesses the language of code block content with go-enry
// so the preview can tag unlabeled fences.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// classifierCandidates limits the enry classifier to languages that commonly
// show up in notes.
//
//nolint:gochecknoglobals // read-only lookup table
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// sample is code content prepared once for the pattern rules.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
	upper   string
}

func newSample(content []byte) sample {
	trimmed := bytes.TrimSpace(content)
	return sample{
		raw:     content,
		trimmed: trimmed,
		text:    string(content),
		upper:   strings.ToUpper(string(trimmed)),
	}
}

// patternRules are checked in order; the first match wins.
//
//nolint:gochecknoglobals // read-only lookup table
var patternRules = []struct {
	lang  string
	match func(s sample) bool
}{
	{"go", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", func(s sample) bool {
		return (strings.Contains(s.text, "def ") && strings.Contains(s.text, "):")) ||
			strings.Contains(s.text, "__name__") ||
			(strings.HasPrefix(string(s.trimmed), "import ") && !strings.Contains(s.text, "import ("))
	}},
	{"html", func(s sample) bool {
		lower := bytes.ToLower(s.trimmed)
		return bytes.Contains(lower, []byte("<!doctype html")) ||
			bytes.Contains(lower, []byte("<html")) ||
			bytes.Contains(lower, []byte("<body>"))
	}},
	{"json", func(s sample) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.Contains(s.trimmed, []byte(`"`))
	}},
	{"dockerfile", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY ")))
	}},
	{"sql", func(s sample) bool {
		for _, keyword := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(s.upper, keyword) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s sample) bool {
		return strings.Contains(s.text, "fn main()") || strings.Contains(s.text, "println!") ||
			strings.Contains(s.text, "let mut ")
	}},
	{"javascript", func(s sample) bool {
		return strings.Contains(s.text, "=>") || strings.Contains(s.text, "const ") ||
			strings.Contains(s.text, "console.log")
	}},
	{"yaml", func(s sample) bool {
		keys := 0
		for _, line := range bytes.Split(s.raw, []byte("\n")) {
			line = bytes.TrimSpace(line)
			switch {
			case len(line) == 0 || line[0] == '#':
			case bytes.HasPrefix(line, []byte("- ")):
				keys++
			case bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"':
				keys++
			}
		}
		return keys >= 2
	}},
}

// Detect returns the detected language for code content.
// Returns Text if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	s := newSample(content)
	for _, rule := range patternRules {
		if rule.match(s) {
			return rule.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// ForCodeBlock returns the language tag for a fenced code block. An info
// string wins; its first word is canonicalized through enry's alias table.
// With an empty info string the content is sniffed when detect is set.
// The empty string means no tag.
func ForCodeBlock(info string, literal []byte, detect bool) string {
	if fields := strings.Fields(info); len(fields) > 0 {
		if lang, ok := enry.GetLanguageByAlias(fields[0]); ok {
			return normalize(lang)
		}
		return strings.ToLower(fields[0])
	}
	if !detect {
		return ""
	}
	if lang := Detect(literal); lang != Text {
		return lang
	}
	return ""
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}
