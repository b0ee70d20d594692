package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rudrodip/whatyouwant/internal/domain"
	"github.com/rudrodip/whatyouwant/internal/prompts"
)

// ParseClassification extracts a {type, output} object from raw model
// text and validates it against the active taxonomy. Parsing tries the
// text as-is first; only when that fails does it scan for the first
// balanced JSON object, which also handles fenced or chat-prefixed
// replies. Any parse or validation failure discards the result.
func ParseClassification(content string, taxonomy *prompts.Taxonomy) (*domain.ClassificationResult, error) {
	var result domain.ClassificationResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		extracted, exErr := extractJSONObject(content)
		if exErr != nil {
			return nil, exErr
		}
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	if !taxonomy.Valid(result.Type) {
		return nil, fmt.Errorf("type %q is not in taxonomy %s", result.Type, taxonomy.Version)
	}
	if result.Output == "" {
		return nil, fmt.Errorf("output is empty")
	}

	return &result, nil
}

// extractJSONObject returns the first balanced {...} span in free text.
func extractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON found in response")
	}

	braceCount := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]

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
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return content[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("incomplete JSON in response")
}
