package scoring

import (
	"encoding/json"
	"strings"
)

func decodeSemantic(jsonText string) (SemanticOutcome, bool) {
	if jsonText == "" {
		return SemanticOutcome{}, false
	}

	var payload struct {
		SemanticScore *float64 `json:"semantic_score"`
		Reasoning     string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil || payload.SemanticScore == nil {
		return SemanticOutcome{}, false
	}

	return SemanticOutcome{
		Kind:      SemanticParsed,
		Score:     clamp01(*payload.SemanticScore),
		Reasoning: payload.Reasoning,
	}, true
}

// firstJSONObject extracts the first balanced {...} object from text that
// may surround the JSON with prose.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func stripCodeFences(s string) string {
	cleaned := strings.ReplaceAll(s, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
