package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseJSON cleans and unmarshals an LLM response into T. Markdown fences
// and prose around the outermost JSON object are discarded.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr, err := extractObject(response)
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, truncate(jsonStr, 500))
	}

	return result, nil
}

func extractObject(response string) (string, error) {
	s := stripFences(response)

	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return "", fmt.Errorf("no JSON object found in response (missing '}')")
	}
	return s[start : end+1], nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

// ParseScore reads a bare number in [0,1] from a response such as "0.85" or
// "Score: 0.85".
func ParseScore(response string) (float64, error) {
	fields := strings.FieldsFunc(response, func(r rune) bool {
		return !(r == '.' || r == '-' || (r >= '0' && r <= '9'))
	})
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		if v < 0 || v > 1 {
			return 0, fmt.Errorf("score %v outside [0,1]", v)
		}
		return v, nil
	}
	return 0, fmt.Errorf("no score found in response: %s", truncate(response, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
