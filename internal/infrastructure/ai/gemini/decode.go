package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// decodeModelJSON unmarshals the first JSON object in content. The model may
// wrap it in a markdown code fence or put prose before or after it.
func decodeModelJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	payload := sanitizeJSONPayload(trimmed)
	if payload == "" {
		return fmt.Errorf("no json object (payload snippet: %s)", snippet(trimmed))
	}

	// Decode stops after the first value, trailing text is ignored
	if err := json.NewDecoder(strings.NewReader(payload)).Decode(target); err != nil {
		return fmt.Errorf("%w (payload snippet: %s)", err, snippet(payload))
	}

	return nil
}

// sanitizeJSONPayload drops a code fence and everything before the first '{'.
func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))

	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}

	return trimmed[start:]
}

func stripCodeFence(content string) string {
	start := strings.Index(content, "```")
	if start < 0 {
		return content
	}

	rest := content[start+3:]
	// drop the language tag line
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}

	if end := strings.Index(rest, "```"); end >= 0 {
		return rest[:end]
	}

	return rest
}

func snippet(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
