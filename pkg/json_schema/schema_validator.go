package json_schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Keywords this validator understands. Anything else in a schema object is
// reported as a warning, never an error: authors get told about typos
// without a strict-mode rejection of newer vocabulary.
var knownKeywords = map[string]struct{}{
	"$schema":              {},
	"$id":                  {},
	"title":                {},
	"description":          {},
	"default":              {},
	"type":                 {},
	"enum":                 {},
	"properties":           {},
	"required":             {},
	"additionalProperties": {},
	"items":                {},
	"minItems":             {},
	"maxItems":             {},
	"minLength":            {},
	"maxLength":            {},
	"pattern":              {},
	"format":               {},
	"minimum":              {},
	"maximum":              {},
}

var validTypeNames = map[string]struct{}{
	"null":    {},
	"boolean": {},
	"object":  {},
	"array":   {},
	"number":  {},
	"string":  {},
	"integer": {},
}

var validStringFormats = map[string]struct{}{
	"date-time": {}, "date": {}, "time": {}, "email": {}, "idn-email": {},
	"hostname": {}, "idn-hostname": {}, "ipv4": {}, "ipv6": {}, "uri": {},
	"uri-reference": {}, "iri": {}, "iri-reference": {}, "uri-template": {},
	"json-pointer": {}, "relative-json-pointer": {}, "regex": {},
}

// ValidateSchema checks whether the given JSON text is itself a well-formed
// schema definition for the subset this package validates. Boolean schemas
// (bare true/false) are valid by definition; null is not a schema.
func ValidateSchema(schemaJSON string) Result {
	switch strings.TrimSpace(schemaJSON) {
	case "true", "false":
		return Result{Valid: true}
	case "null":
		return parseError(": null is not a valid JSON schema (must be object or boolean)")
	}

	schema, err := parseJSON(schemaJSON)
	if err != nil {
		return parseError(fmt.Sprintf("invalid JSON syntax: %v", err))
	}

	var errors, warnings []string
	validateSchemaValue(schema, "", &errors, &warnings)
	return resultOf(errors, warnings)
}

func validateSchemaValue(schema any, path string, errors, warnings *[]string) {
	if _, ok := schema.(bool); ok {
		// Boolean subschemas accept everything or nothing; always valid.
		return
	}

	schemaObj, ok := schema.(map[string]any)
	if !ok {
		*errors = append(*errors, path+": schema must be an object or boolean")
		return
	}

	for keyword := range schemaObj {
		if _, known := knownKeywords[keyword]; !known {
			*warnings = append(*warnings, fmt.Sprintf("%s: unknown keyword '%s'", path, keyword))
		}
	}

	if typeValue, ok := schemaObj["type"]; ok {
		validateTypeKeyword(typeValue, path+".type", errors)
	}
	if properties, ok := schemaObj["properties"]; ok {
		validatePropertiesKeyword(properties, path+".properties", errors, warnings)
	}
	if required, ok := schemaObj["required"]; ok {
		validateRequiredKeyword(required, path+".required", errors)
	}
	if additional, ok := schemaObj["additionalProperties"]; ok {
		validateAdditionalPropertiesKeyword(additional, path+".additionalProperties", errors, warnings)
	}
	if items, ok := schemaObj["items"]; ok {
		validateSchemaValue(items, path+".items", errors, warnings)
	}
	if enum, ok := schemaObj["enum"]; ok {
		validateEnumKeyword(enum, path+".enum", errors)
	}

	validateBoundsKeywords(schemaObj, path, errors)

	if pattern, ok := schemaObj["pattern"]; ok {
		validatePatternKeyword(pattern, path+".pattern", errors)
	}
	if format, ok := schemaObj["format"]; ok {
		validateFormatKeyword(format, path+".format", errors, warnings)
	}
}

func validateTypeKeyword(typeValue any, path string, errors *[]string) {
	switch t := typeValue.(type) {
	case string:
		if _, ok := validTypeNames[t]; !ok {
			*errors = append(*errors, fmt.Sprintf("%s: '%s' is not a valid type", path, t))
		}
	case []any:
		if len(t) == 0 {
			*errors = append(*errors, path+": type array must not be empty")
			return
		}
		seen := make(map[string]struct{}, len(t))
		for i, candidate := range t {
			name, ok := candidate.(string)
			if !ok {
				*errors = append(*errors, fmt.Sprintf("%s[%d]: type entries must be strings", path, i))
				continue
			}
			if _, valid := validTypeNames[name]; !valid {
				*errors = append(*errors, fmt.Sprintf("%s[%d]: '%s' is not a valid type", path, i, name))
			}
			if _, dup := seen[name]; dup {
				*errors = append(*errors, fmt.Sprintf("%s[%d]: duplicate type '%s'", path, i, name))
			}
			seen[name] = struct{}{}
		}
	default:
		*errors = append(*errors, path+": type must be a string or an array of strings")
	}
}

func validatePropertiesKeyword(properties any, path string, errors, warnings *[]string) {
	propertiesObj, ok := properties.(map[string]any)
	if !ok {
		*errors = append(*errors, path+": properties must be an object")
		return
	}
	for name, propertySchema := range propertiesObj {
		validateSchemaValue(propertySchema, path+"."+name, errors, warnings)
	}
}

func validateRequiredKeyword(required any, path string, errors *[]string) {
	requiredArr, ok := required.([]any)
	if !ok {
		*errors = append(*errors, path+": required must be an array")
		return
	}
	seen := make(map[string]struct{}, len(requiredArr))
	for i, entry := range requiredArr {
		name, ok := entry.(string)
		if !ok {
			*errors = append(*errors, fmt.Sprintf("%s[%d]: required entries must be strings", path, i))
			continue
		}
		if _, dup := seen[name]; dup {
			*errors = append(*errors, fmt.Sprintf("%s[%d]: duplicate required property '%s'", path, i, name))
		}
		seen[name] = struct{}{}
	}
}

func validateAdditionalPropertiesKeyword(additional any, path string, errors, warnings *[]string) {
	if _, ok := additional.(bool); ok {
		return
	}
	// The non-boolean form is a subschema applied to extra properties.
	validateSchemaValue(additional, path, errors, warnings)
}

func validateEnumKeyword(enum any, path string, errors *[]string) {
	enumArr, ok := enum.([]any)
	if !ok {
		*errors = append(*errors, path+": enum must be an array")
		return
	}
	if len(enumArr) == 0 {
		*errors = append(*errors, path+": enum must not be empty")
	}
}

// validateBoundsKeywords checks the numeric constraint keywords: the length
// and item-count bounds must be non-negative integers, minimum/maximum must
// be numbers.
func validateBoundsKeywords(schemaObj map[string]any, path string, errors *[]string) {
	for _, key := range []string{"minLength", "maxLength", "minItems", "maxItems"} {
		raw, present := schemaObj[key]
		if !present {
			continue
		}
		n, ok := intKeyword(schemaObj, key)
		if !ok {
			*errors = append(*errors, fmt.Sprintf("%s.%s: must be an integer, got %v", path, key, raw))
			continue
		}
		if n < 0 {
			*errors = append(*errors, fmt.Sprintf("%s.%s: must not be negative", path, key))
		}
	}

	for _, key := range []string{"minimum", "maximum"} {
		raw, present := schemaObj[key]
		if !present {
			continue
		}
		if _, ok := floatKeyword(schemaObj, key); !ok {
			*errors = append(*errors, fmt.Sprintf("%s.%s: must be a number, got %v", path, key, raw))
		}
	}
}

func validatePatternKeyword(pattern any, path string, errors *[]string) {
	patternStr, ok := pattern.(string)
	if !ok {
		*errors = append(*errors, path+": pattern must be a string")
		return
	}
	if _, err := regexp.Compile(patternStr); err != nil {
		*errors = append(*errors, fmt.Sprintf("%s: invalid regular expression: %v", path, err))
	}
}

func validateFormatKeyword(format any, path string, errors, warnings *[]string) {
	formatStr, ok := format.(string)
	if !ok {
		*errors = append(*errors, path+": format must be a string")
		return
	}
	if _, known := validStringFormats[formatStr]; !known {
		*warnings = append(*warnings, fmt.Sprintf("%s: unrecognized format '%s'", path, formatStr))
	}
}
