package agent

import (
	"regexp"
	"strings"
)

// thinkBlockPattern matches reasoning markup emitted by some models before
// their actual answer. The (?s) flag lets the block span multiple lines.
var thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ExtractJSON cleans raw agent output down to a JSON object. It removes
// <think> reasoning blocks and then slices from the first '{' to the last
// '}', which also strips markdown code fences and surrounding prose. Text
// with no braces is returned unchanged so the caller's JSON decoder can
// report the real failure.
func ExtractJSON(text string) string {
	text = thinkBlockPattern.ReplaceAllString(text, "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && start < end {
		return text[start : end+1]
	}
	return text
}
