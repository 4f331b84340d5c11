package utils

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject finds the first well-formed JSON object embedded in free
// text and unmarshals it into v. Model responses routinely wrap the object in
// prose or markdown fences, so the raw text is scanned with brace matching
// instead of being decoded directly. Returns false when no parseable object
// is present; it never panics on arbitrary input.
func ExtractJSONObject(text string, v interface{}) bool {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if candidate, ok := matchBraces(text[start:]); ok {
			if err := json.Unmarshal([]byte(candidate), v); err == nil {
				return true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			return false
		}
		start = start + 1 + next
	}
	return false
}

// matchBraces returns the prefix of s that spans a balanced {...} block,
// ignoring braces inside JSON string literals.
func matchBraces(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
