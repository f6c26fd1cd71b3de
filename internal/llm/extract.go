package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// stripMarkdownCodeBlocks removes ```json ... ``` fences that models
// habitually wrap structured output in.
func stripMarkdownCodeBlocks(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// extractJSONObject finds the first balanced top-level JSON object in
// content. Brace matching skips braces inside string literals.
func extractJSONObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(content); i++ {
		c := content[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					candidate := content[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, true
					}
					return "", false
				}
			}
		}
	}

	return "", false
}

// parseFactSet turns raw model output into a fact set, or fails with
// ErrAnalysisParse when no valid JSON object can be recovered.
func parseFactSet(content string) (*domain.FactSet, error) {
	cleaned := stripMarkdownCodeBlocks(content)

	raw, ok := extractJSONObject(cleaned)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found in response", domain.ErrAnalysisParse)
	}

	var fs domain.FactSet
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisParse, err)
	}

	return &fs, nil
}
