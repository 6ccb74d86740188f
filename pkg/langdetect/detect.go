// Package langdetect guesses the language of an unlabelled fenced code
// block so that protected-range listings can show what each fence holds.
// It uses go-enry for shebang and classifier detection, after a set of
// cheap textual heuristics.
package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// classifierCandidates bounds the enry classifier to languages commonly
// found in notes.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

type heuristic struct {
	lang  string
	match func(body, trimmed string) bool
}

// heuristics run in order; the first match wins.
var heuristics = []heuristic{
	{"go", func(_, trimmed string) bool {
		return strings.HasPrefix(trimmed, "package ")
	}},
	{"python", looksLikePython},
	{"html", func(_, trimmed string) bool {
		lower := strings.ToLower(trimmed)
		return containsAny(lower, "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(_, trimmed string) bool {
		return (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
			strings.Contains(trimmed, `"`)
	}},
	{"dockerfile", func(body, trimmed string) bool {
		return strings.HasPrefix(trimmed, "FROM ") ||
			(strings.Contains(body, "\nFROM ") && strings.Contains(body, "\nRUN ")) ||
			(strings.Contains(body, "WORKDIR ") && strings.Contains(body, "COPY "))
	}},
	{"sql", func(_, trimmed string) bool {
		upper := strings.ToUpper(trimmed)
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(body, _ string) bool {
		return containsAny(body, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(body, _ string) bool {
		return containsAny(body, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", looksLikeYAML},
}

// Detect returns the detected language for code content, or Text.
func Detect(content []byte) string {
	if len(content) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	body := string(content)
	trimmed := strings.TrimSpace(body)
	for _, h := range heuristics {
		if h.match(body, trimmed) {
			return h.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// DetectString is Detect for string content.
func DetectString(content string) string {
	return Detect([]byte(content))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func looksLikePython(body, trimmed string) bool {
	if strings.Contains(body, "def ") && strings.Contains(body, "):") {
		return true
	}
	// Go uses "import (", so exclude it.
	if strings.Contains(body, "import ") && !strings.Contains(body, "import (") &&
		(strings.Contains(body, "from ") || strings.HasPrefix(trimmed, "import ")) {
		return true
	}
	return containsAny(body, "__name__", "__main__")
}

// looksLikeYAML counts "key: value" lines and root list items.
func looksLikeYAML(body, _ string) bool {
	count := 0
	for line := range strings.SplitSeq(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") && !containsAny(line, "(", "{") && !strings.HasPrefix(line, `"`) {
			count++
		}
		if strings.HasPrefix(line, "- ") {
			count++
		}
	}
	return count >= 2
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
