package evaluation

import "errors"

// ErrNoJSONObject is returned when a reply contains no balanced JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSONObject pulls the first balanced {...} block out of a model's
// free-text reply. Models often wrap the object in prose or code fences;
// scanning for the outermost balanced block keeps trailing commentary out
// of the parser.
func ExtractJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", ErrNoJSONObject
}
