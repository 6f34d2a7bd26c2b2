package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text,
// and accepts either a JSON object or a JSON array as the payload.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	start, opener, closer := objStart, "{", "}"
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start, opener, closer = arrStart, "[", "]"
	}
	if start == -1 {
		return zero, fmt.Errorf("no JSON payload found in response (missing '%s')", opener)
	}

	end := strings.LastIndex(response, closer)
	if end <= start {
		return zero, fmt.Errorf("no JSON payload found in response (missing '%s')", closer)
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
