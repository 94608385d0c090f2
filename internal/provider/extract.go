// Package provider holds helpers shared by the provider decoders (Sleeper
// roster dumps, draft documents, ESPN search payloads), whose JSON is loose
// about the types it uses for the same field.
package provider

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ExtractString normalizes an identifier or name from various JSON shapes.
//
// Sleeper emits espn_id as a string for most players and as a bare number
// for others; some records carry null. This handles all of them.
//
// Returns the trimmed string value, and ok=false if absent or empty.
func ExtractString(val interface{}) (string, bool) {
	if val == nil {
		return "", false
	}

	var s string
	switch v := val.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	return s, s != ""
}

// StringField reads key from a decoded JSON object via ExtractString.
// A missing key, null, or non-scalar value yields "".
func StringField(obj map[string]interface{}, key string) string {
	s, _ := ExtractString(obj[key])
	return s
}
