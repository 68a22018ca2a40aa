package openrouter

import (
	"regexp"
	"strings"
)

var (
	thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// ExtractJSON strips the markup some reasoning models wrap around their JSON
// answer: <think>...</think> trace blocks and Markdown code fences. When no
// fence is present, it falls back to the outermost {...} span so trailing
// prose does not break the parse. The cleaned text may still be invalid
// JSON; callers surface that as a generation error.
func ExtractJSON(content string) string {
	s := thinkRe.ReplaceAllString(content, "")
	s = strings.TrimSpace(s)

	if m := fenceRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
