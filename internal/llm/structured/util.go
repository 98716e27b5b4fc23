package structured

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

func stringsReader(schema []byte) io.Reader {
	return bytes.NewReader(schema)
}

// extractJSONObject finds the first balanced top-level JSON value in text,
// tolerating surrounding prose or a markdown code fence. It returns nil if
// no balanced object or array is found.
func extractJSONObject(text string) json.RawMessage {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return nil
	}
	open := text[start]
	close := byte('}')
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
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
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				var probe any
				if json.Unmarshal([]byte(candidate), &probe) == nil {
					return json.RawMessage(candidate)
				}
				return nil
			}
		}
	}
	return nil
}
