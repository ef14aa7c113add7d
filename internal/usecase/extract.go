package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prezzoscout/backend/internal/domain"
)

// ExtractStructured pulls the first balanced JSON object out of free-form
// model output, falling back to the first balanced array. Markdown code
// fences are stripped first. Returns the raw JSON slice, so callers can run
// their own typed decode against it.
//
// Balance is tracked with a depth counter that is aware of string literals
// and escape sequences, so braces inside string values do not truncate or
// extend the extracted region.
func ExtractStructured(text string) (json.RawMessage, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	if raw, ok := extractBalanced(clean, '{', '}'); ok {
		return raw, nil
	}
	if raw, ok := extractBalanced(clean, '[', ']'); ok {
		return raw, nil
	}

	return nil, fmt.Errorf("%w: no balanced object or array", domain.ErrResponseParse)
}

// extractBalanced returns the first substring of s that starts with open,
// ends with the matching close at depth zero, and decodes as valid JSON.
func extractBalanced(s string, open, close byte) (json.RawMessage, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				var probe any
				if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
					return nil, false
				}
				return json.RawMessage(candidate), true
			}
		}
	}

	return nil, false
}
