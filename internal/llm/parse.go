package llm

import (
	"encoding/json"
	"strings"
)

// extractJSON returns the text from the first '{' to the last '}'. Models
// often wrap the object in prose or code fences.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", malformed("no JSON object in reply (reply was: %.200s)", text)
	}
	return text[start : end+1], nil
}

// decodeReply extracts and decodes the JSON object embedded in text.
func decodeReply(text string, v any) error {
	raw, err := extractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return malformed("parsing reply JSON: %v (reply was: %.200s)", err, raw)
	}
	return nil
}
