package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

// resultKeys are the JSON fields a model might put its answer under, in
// preference order.
var resultKeys = []string{"result", "combination", "answer", "label"}

// explanationKeys are the JSON fields a model might put its reasoning under.
var explanationKeys = []string{"explanation", "reason", "rationale"}

// trailingCommaRe matches a comma before a closing brace or bracket, the
// most common malformation in model-emitted JSON.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// extractResult performs best-effort structured extraction on raw model
// output. If the output contains a JSON object, the answer and any
// explanation field are pulled out of it, with light repair for common
// malformations; otherwise the raw text itself is the result. The fallback
// contract is fixed: extraction never fails, it always yields a result
// string (possibly empty for empty input).
func extractResult(raw string) (result, explanation string) {
	text := stripCodeFence(strings.TrimSpace(raw))

	obj := findJSONObject(text)
	if obj == nil {
		return text, ""
	}

	for _, key := range resultKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			result = strings.TrimSpace(s)
			break
		}
	}
	if result == "" {
		// Object without a recognised answer field: raw-text mode.
		return text, ""
	}

	for _, key := range explanationKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			explanation = strings.TrimSpace(s)
			break
		}
	}
	return result, explanation
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag line ("json", "text", ...).
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// findJSONObject locates and decodes the first JSON object in the text,
// applying trailing-comma repair on a failed first parse. Returns nil when
// no object can be decoded.
func findJSONObject(s string) map[string]any {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil
	}
	candidate := s[start : end+1]

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
		return obj
	}

	repaired := trailingCommaRe.ReplaceAllString(candidate, "$1")
	if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
		return obj
	}
	return nil
}
