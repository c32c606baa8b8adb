package core

import "strings"

const RedactedValue = "[REDACTED]"

// keys that identify a delivery or subscription and must survive redaction
// even when they contain a sensitive token ("event_id" vs "id_token").
var logSafeKeys = map[string]struct{}{
	"connector_id":    {},
	"event_id":        {},
	"event_type":      {},
	"subscription_id": {},
	"webhook_path":    {},
	"trace_id":        {},
	"request_id":      {},
}

var credentialMarkers = []string{
	"api_key",
	"apikey",
	"authorization",
	"password",
	"secret",
	"token",
	"credential",
	"signature",
}

// RedactSensitiveMap returns a copy of fields with credential-like keys
// masked. Nested maps, header maps and slices are walked.
func RedactSensitiveMap(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if isCredentialKey(key) {
			out[key] = RedactedValue
			continue
		}
		out[key] = redactValue(value)
	}
	return out
}

func redactValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return RedactSensitiveMap(v)
	case map[string]string:
		headers := make(map[string]string, len(v))
		for key, item := range v {
			if isCredentialKey(key) {
				item = RedactedValue
			}
			headers[key] = item
		}
		return headers
	case []any:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, redactValue(item))
		}
		return items
	}
	return value
}

func isCredentialKey(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return false
	}
	if _, ok := logSafeKeys[normalized]; ok {
		return false
	}
	for _, marker := range credentialMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// maskSecret keeps the last four characters so operators can tell keys apart.
func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case len(value) <= 4:
		return "****"
	}
	return "****" + value[len(value)-4:]
}
