// Package structured extracts YAML or JSON payloads from model replies and
// decodes them into typed values.
package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ErrNoPayload is returned when a reply contains neither YAML nor JSON.
var ErrNoPayload = errors.New("no YAML or JSON payload found in response")

const fence = "```"

// Parse decodes a model reply into T. YAML is tried first with unknown fields
// rejected, then JSON, then YAML again ignoring unknown fields.
func Parse[T any](response string) (*T, error) {
	var errs []error
	yamlContent := ExtractYAML(response)

	if yamlContent != "" {
		out, err := decodeYAML[T](yamlContent, true)
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("yaml: %w", err))
	}

	if content := ExtractJSON(response); content != "" {
		var out T
		err := json.Unmarshal([]byte(content), &out)
		if err == nil {
			return &out, nil
		}
		errs = append(errs, fmt.Errorf("json: %w", err))
	}

	if yamlContent != "" {
		if out, err := decodeYAML[T](yamlContent, false); err == nil {
			return out, nil
		}
	}

	if len(errs) == 0 {
		return nil, ErrNoPayload
	}
	return nil, fmt.Errorf("failed to parse response as YAML or JSON: %w", errors.Join(errs...))
}

func decodeYAML[T any](content string, strict bool) (*T, error) {
	var out T
	dec := yaml.NewDecoder(strings.NewReader(content))
	dec.KnownFields(strict)
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractYAML returns the body of a ```yaml block, else of the first fenced
// block, else the run of key: value lines in the reply.
func ExtractYAML(response string) string {
	if body, ok := fencedBlock(response, "yaml"); ok {
		return body
	}
	if body, ok := fencedBlock(response, ""); ok {
		return body
	}

	var lines []string
	collecting := false
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if !collecting && strings.Contains(trimmed, ":") && !strings.HasPrefix(trimmed, "http") {
			collecting = true
		}
		if !collecting {
			continue
		}
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "-") &&
			!strings.Contains(trimmed, ":") {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractJSON returns the body of a ```json block, else a fenced block that
// starts with { or [, else the first balanced {...} object in the reply.
func ExtractJSON(response string) string {
	if body, ok := fencedBlock(response, "json"); ok {
		return body
	}
	if body, ok := fencedBlock(response, ""); ok && (strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[")) {
		return body
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(response); i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}

// fencedBlock finds a ``` block. With a language it must be opened as ```lang;
// without one, any info string on the opening line is skipped.
func fencedBlock(response, lang string) (string, bool) {
	open := strings.Index(response, fence+lang)
	if open == -1 {
		return "", false
	}
	bodyStart := open + len(fence) + len(lang)
	if lang == "" {
		nl := strings.Index(response[bodyStart:], "\n")
		if nl == -1 {
			return "", false
		}
		bodyStart += nl + 1
	}
	end := strings.Index(response[bodyStart:], fence)
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(response[bodyStart : bodyStart+end]), true
}
