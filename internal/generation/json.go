package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"strategos/internal/types"
)

// ExtractDocument parses a JSON object from model output, tolerating
// markdown code fences and leading prose. Models regularly wrap payloads in
// ```json fences despite instructions not to.
func ExtractDocument(text string) (types.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines) - 1
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	// Fall back to the outermost braces when the model added prose around
	// the object.
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in response")
		}
		text = text[start : end+1]
	}

	var doc types.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse response as JSON: %w", err)
	}
	return doc, nil
}

// CompactJSON renders a document as compact JSON for prompt embedding.
func CompactJSON(doc types.Document) string {
	if doc == nil {
		return "{}"
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(data)
}
