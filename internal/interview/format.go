package interview

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// raw model output is conversational and messy; these rules squeeze it
// down to a single clean question-sized utterance
var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	rolePrefixRe = regexp.MustCompile(`(?i)^(AI|Interviewer|Assistant):\s*`)
	bracketedRe  = regexp.MustCompile(`\[[^\]]*\]`)
	boldRe       = regexp.MustCompile(`\*\*|__`)
)

// leading filler the models like to open with, stripped only at the start
var fillerPrefixes = []string{
	"got it!",
	"got it,",
	"i see,",
	"i see.",
	"now,",
	"so,",
	"well,",
	"okay,",
	"alright,",
}

const maxResponseLength = 200

// FormatResponse cleans a raw LLM reply into a short interviewer utterance.
// Pure and idempotent: formatting an already formatted string is a no-op.
func FormatResponse(raw string) string {
	formatted := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))

	formatted = rolePrefixRe.ReplaceAllString(formatted, "")

	// markup comes off before filler so "**So**, ..." still loses its filler
	formatted = boldRe.ReplaceAllString(formatted, "")
	formatted = bracketedRe.ReplaceAllString(formatted, "")
	formatted = strings.TrimSpace(whitespaceRe.ReplaceAllString(formatted, " "))

	formatted = stripFiller(formatted)

	if len(formatted) > maxResponseLength {
		formatted = truncateToQuestion(formatted)
	}

	formatted = capitalize(formatted)

	return strings.TrimSpace(formatted)
}

func stripFiller(text string) string {
	for {
		stripped := false
		lower := strings.ToLower(text)
		for _, prefix := range fillerPrefixes {
			if strings.HasPrefix(lower, prefix) {
				text = strings.TrimSpace(text[len(prefix):])
				stripped = true
				break
			}
		}
		if !stripped {
			return text
		}
	}
}

// truncateToQuestion keeps the first complete question when one exists,
// else the first sentence.
func truncateToQuestion(text string) string {
	if parts := strings.Split(text, "?"); len(parts) > 1 {
		return parts[0] + "?"
	}

	first := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	if len(first) == 0 {
		return text
	}
	sentence := strings.TrimSpace(first[0])
	if !strings.HasSuffix(sentence, "?") && !strings.HasSuffix(sentence, ".") {
		sentence += "."
	}
	return sentence
}

func capitalize(text string) string {
	if text == "" {
		return text
	}
	r, size := utf8.DecodeRuneInString(text)
	if unicode.IsUpper(r) {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

// EnsureQuestion guarantees the interviewer's utterance contains a
// question. Short answers get a question mark appended; long ones are
// replaced wholesale with a role-specific canned question.
func EnsureQuestion(text, role string) string {
	if strings.Contains(text, "?") {
		return text
	}
	if len(text) < 100 {
		return text + "?"
	}
	return fmt.Sprintf("What experience do you have with %s?", role)
}
