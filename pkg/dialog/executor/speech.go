package executor

import (
	"strings"
	"unicode/utf8"
)

// NormalizeForSpeech turns model output into text safe to hand to a speech
// synthesizer: no markup, single spaces, clamped to maxChars at a sentence
// boundary so the voice never cuts off mid-word.
func NormalizeForSpeech(text string, maxChars int) string {
	text = stripMarkup(text)
	text = strings.Join(strings.Fields(text), " ")

	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	// Never split a UTF-8 sequence; advisory text is frequently Hindi.
	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}

	clipped := text[:maxChars]
	if end := lastSentenceEnd(clipped); end > 0 {
		return strings.TrimSpace(clipped[:end])
	}
	if idx := strings.LastIndex(clipped, " "); idx > 0 {
		return strings.TrimSpace(clipped[:idx]) + "."
	}
	return clipped
}

func stripMarkup(text string) string {
	replacer := strings.NewReplacer(
		"**", "",
		"*", "",
		"__", "",
		"`", "",
		"#", "",
	)
	text = replacer.Replace(text)

	// Bullet lists read terribly aloud; flatten them into sentences.
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "• ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

// lastSentenceEnd returns the exclusive byte offset just past the final
// sentence terminator, or 0 when none is present.
func lastSentenceEnd(s string) int {
	best := 0
	for _, mark := range []string{".", "!", "?", "।"} {
		if idx := strings.LastIndex(s, mark); idx >= 0 && idx+len(mark) > best {
			best = idx + len(mark)
		}
	}
	return best
}
