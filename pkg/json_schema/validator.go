// Package json_schema validates event payloads against a curated subset of
// JSON Schema Draft 7. The event store itself never interprets a body; a
// collaborator runs the payload through ValidateDocument before appending,
// and through ValidateSchema when schemas themselves are authored.
package json_schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Result is a pass/fail-with-reasons validation outcome. Errors make the
// result invalid; Warnings (unknown keywords, unrecognized formats) never
// do.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func resultOf(errors, warnings []string) Result {
	return Result{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

func parseError(message string) Result {
	return Result{Valid: false, Errors: []string{message}}
}

// ValidateDocument checks a JSON document against a JSON schema. Both are
// given as raw JSON text; a document that does not parse is reported as an
// error result, not a fault.
func ValidateDocument(schemaJSON, documentJSON string) Result {
	schema, err := parseJSON(schemaJSON)
	if err != nil {
		return parseError(fmt.Sprintf("failed to parse schema: %v", err))
	}
	schemaObj, ok := schema.(map[string]any)
	if !ok {
		return parseError("schema must be an object")
	}

	document, err := parseJSON(documentJSON)
	if err != nil {
		return parseError(fmt.Sprintf("failed to parse document: %v", err))
	}

	var errors []string
	validateValue(document, schemaObj, "", &errors)
	return resultOf(errors, nil)
}

// parseJSON decodes with json.Number so the integer/number distinction
// survives decoding.
func parseJSON(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func validateValue(value any, schema map[string]any, path string, errors *[]string) {
	if typeValue, ok := schema["type"]; ok {
		if !matchesType(value, typeValue) {
			*errors = append(*errors, fmt.Sprintf("%s: expected type %s but got '%s'",
				path, expectedTypes(typeValue), actualType(value)))
			return
		}
	}

	switch t := value.(type) {
	case map[string]any:
		validateObject(t, schema, path, errors)
	case []any:
		validateArray(t, schema, path, errors)
	case string:
		validateString(t, schema, path, errors)
	case json.Number:
		validateNumber(t, schema, path, errors)
	}
	// Booleans and nulls carry nothing beyond their type.
}

func validateObject(obj map[string]any, schema map[string]any, path string, errors *[]string) {
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			field, ok := r.(string)
			if !ok {
				continue
			}
			if _, present := obj[field]; !present {
				*errors = append(*errors, fmt.Sprintf("%s: missing required property '%s'", path, field))
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)

	if additional, ok := schema["additionalProperties"].(bool); ok && !additional && properties != nil {
		for key := range obj {
			if _, known := properties[key]; !known {
				*errors = append(*errors, fmt.Sprintf("%s: additional property '%s' is not allowed", path, key))
			}
		}
	}

	for name, propertyValue := range obj {
		propertySchema, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		validateValue(propertyValue, propertySchema, childPath, errors)
	}
}

func validateArray(arr []any, schema map[string]any, path string, errors *[]string) {
	if items, ok := schema["items"].(map[string]any); ok {
		for i, item := range arr {
			validateValue(item, items, fmt.Sprintf("%s[%d]", path, i), errors)
		}
	}

	if min, ok := intKeyword(schema, "minItems"); ok && len(arr) < min {
		*errors = append(*errors, fmt.Sprintf("%s: array must have at least %d items", path, min))
	}
	if max, ok := intKeyword(schema, "maxItems"); ok && len(arr) > max {
		*errors = append(*errors, fmt.Sprintf("%s: array must have at most %d items", path, max))
	}
}

func validateString(str string, schema map[string]any, path string, errors *[]string) {
	if min, ok := intKeyword(schema, "minLength"); ok && len(str) < min {
		*errors = append(*errors, fmt.Sprintf("%s: string length must be at least %d", path, min))
	}
	if max, ok := intKeyword(schema, "maxLength"); ok && len(str) > max {
		*errors = append(*errors, fmt.Sprintf("%s: string length must be at most %d", path, max))
	}

	if patternStr, ok := schema["pattern"].(string); ok {
		// The pattern must match the whole string.
		pattern, err := regexp.Compile("^(?:" + patternStr + ")$")
		if err != nil {
			*errors = append(*errors, fmt.Sprintf("%s: invalid pattern in schema: %v", path, err))
		} else if !pattern.MatchString(str) {
			*errors = append(*errors, fmt.Sprintf("%s: string does not match pattern '%s'", path, patternStr))
		}
	}

	if format, ok := schema["format"].(string); ok {
		if format == "date" && !isValidDate(str) {
			*errors = append(*errors, fmt.Sprintf("%s: string is not a valid date format (expected YYYY-MM-DD)", path))
		}
	}
}

func validateNumber(num json.Number, schema map[string]any, path string, errors *[]string) {
	value, err := num.Float64()
	if err != nil {
		return
	}

	if min, ok := floatKeyword(schema, "minimum"); ok && value < min {
		*errors = append(*errors, fmt.Sprintf("%s: number must be at least %v", path, min))
	}
	if max, ok := floatKeyword(schema, "maximum"); ok && value > max {
		*errors = append(*errors, fmt.Sprintf("%s: number must be at most %v", path, max))
	}
}

// matchesType handles both the single-type ("string") and the multi-type
// (["string", "null"]) forms of the type keyword.
func matchesType(value any, typeValue any) bool {
	switch t := typeValue.(type) {
	case string:
		return matchesSingleType(value, t)
	case []any:
		for _, candidate := range t {
			name, ok := candidate.(string)
			if ok && matchesSingleType(value, name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchesSingleType(value any, expected string) bool {
	switch strings.ToLower(expected) {
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(json.Number)
		return ok
	case "integer":
		num, ok := value.(json.Number)
		return ok && isIntegral(num)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "null":
		return value == nil
	default:
		return false
	}
}

func isIntegral(num json.Number) bool {
	return !strings.ContainsAny(num.String(), ".eE")
}

func expectedTypes(typeValue any) string {
	switch t := typeValue.(type) {
	case string:
		return "'" + t + "'"
	case []any:
		names := make([]string, 0, len(t))
		for _, candidate := range t {
			if name, ok := candidate.(string); ok {
				names = append(names, "'"+name+"'")
			}
		}
		return "one of [" + strings.Join(names, ", ") + "]"
	default:
		return "unknown"
	}
}

func actualType(value any) string {
	switch t := value.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		if isIntegral(t) {
			return "integer"
		}
		return "number"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

func intKeyword(schema map[string]any, key string) (int, bool) {
	num, ok := schema[key].(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func floatKeyword(schema map[string]any, key string) (float64, bool) {
	num, ok := schema[key].(json.Number)
	if !ok {
		return 0, false
	}
	f, err := num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func isValidDate(str string) bool {
	_, err := time.Parse("2006-01-02", str)
	return err == nil
}
