package apierr

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// strategy recovers a message from a failure body. ok is false when the
// strategy found nothing usable and the next one should run.
type strategy func(raw string) (msg string, ok bool)

// extractors run in priority order, the first non-empty message wins.
var extractors = []strategy{
	parseDirect,
	parseEmbedded,
	matchMessageField,
	parseGatewayPayload,
}

// embeddedOpeners are searched independently, each contributes its first index.
var embeddedOpeners = []string{`[{`, `["`, `[`, `{`}

var messageFieldRe = regexp.MustCompile(`"message"\s*:\s*"([^"]+)"`)

// gatewayMarker ends the trace prefix a gateway puts before the downstream payload,
// e.g. "[409 Conflict] during [POST] to [...] [Client#reserve(...)]: {...}".
const gatewayMarker = "]:"

// Extract returns the best-effort human message contained in a failure body.
// The result may be empty or one of the sentinel JSON texts, see Normalize.
func Extract(raw string) string {
	if raw == "" {
		return ""
	}
	trimmed := strings.TrimSpace(raw)
	if msg, ok := runExtractors(trimmed); ok {
		return msg
	}
	return trimmed
}

// ExtractStructured is Extract without the literal fallback. It is used for
// bodies declared as JSON, where the raw text is never a message.
func ExtractStructured(raw string) string {
	msg, _ := runExtractors(strings.TrimSpace(raw))
	return msg
}

func runExtractors(trimmed string) (string, bool) {
	if trimmed == "" {
		return "", false
	}
	for _, extract := range extractors {
		if msg, ok := extract(trimmed); ok {
			return msg, true
		}
	}
	return "", false
}

// Normalize blanks out the texts that mean "nothing useful here".
func Normalize(msg string) string {
	trimmed := strings.TrimSpace(msg)
	switch trimmed {
	case "[]", "{}", "null":
		return ""
	}
	return trimmed
}

// Message is Extract followed by Normalize.
func Message(raw string) string {
	return Normalize(Extract(raw))
}

// parseDirect treats the whole input as a single JSON document.
func parseDirect(raw string) (string, bool) {
	data := []byte(raw)
	if !json.Valid(data) {
		return "", false
	}
	return resolve(data)
}

// parseEmbedded looks for a JSON value inside surrounding text. A value that
// runs to the end of the input resolves as usual. A value followed by more
// text only counts when it resolves to a JSON string, so "Retry in [5] seconds"
// stays plain text.
func parseEmbedded(raw string) (string, bool) {
	for _, idx := range openerIndices(raw) {
		var value json.RawMessage
		dec := json.NewDecoder(strings.NewReader(raw[idx:]))
		if err := dec.Decode(&value); err != nil {
			continue
		}

		rest := raw[idx+int(dec.InputOffset()):]
		if strings.TrimSpace(rest) == "" {
			if msg, ok := resolve(value); ok {
				return msg, true
			}
			continue
		}
		if msg, ok := resolveString(value); ok {
			return msg, true
		}
	}
	return "", false
}

func openerIndices(raw string) []int {
	var indices []int
	seen := make(map[int]bool, len(embeddedOpeners))
	for _, opener := range embeddedOpeners {
		idx := strings.Index(raw, opener)
		if idx == -1 || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// matchMessageField catches a "message" field in text that is not valid JSON.
// Escaped quotes inside the value are not handled.
func matchMessageField(raw string) (string, bool) {
	m := messageFieldRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseGatewayPayload retries the JSON strategies on the text after the gateway marker.
func parseGatewayPayload(raw string) (string, bool) {
	idx := strings.Index(raw, gatewayMarker)
	if idx == -1 {
		return "", false
	}
	remainder := strings.TrimSpace(raw[idx+len(gatewayMarker):])
	if msg, ok := parseDirect(remainder); ok {
		return msg, true
	}
	return parseEmbedded(remainder)
}

// resolve picks a message out of a decoded JSON value, dispatching on its shape.
func resolve(value json.RawMessage) (string, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}

	var msg string
	switch value[0] {
	case 'n':
		return "", false
	case '"':
		if err := json.Unmarshal(value, &msg); err != nil {
			return "", false
		}
	case '[':
		msg = resolveArray(value)
	case '{':
		msg = resolveObject(value)
	case 't', 'f':
		msg = string(value)
	default:
		msg = formatNumber(value)
	}

	return msg, msg != ""
}

// resolveString is resolve limited to strings: a string, a string element of
// an array, or a string message or error field.
func resolveString(value json.RawMessage) (string, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}

	var msg string
	switch value[0] {
	case '"':
		msg, _ = stringField(value)
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(value, &elems); err != nil {
			return "", false
		}
		for _, elem := range elems {
			if s, ok := resolveString(elem); ok {
				return s, true
			}
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(value, &fields); err != nil {
			return "", false
		}
		for _, key := range []string{"message", "error"} {
			if s, ok := stringField(fields[key]); ok {
				msg = s
				break
			}
		}
	}

	return msg, msg != ""
}

// formatNumber prints a JSON number in its shortest decimal form, 1e2 as 100.
func formatNumber(value json.RawMessage) string {
	f, err := strconv.ParseFloat(string(value), 64)
	if err != nil {
		return string(value)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func resolveArray(value json.RawMessage) string {
	var elems []json.RawMessage
	if err := json.Unmarshal(value, &elems); err != nil {
		return ""
	}
	for _, elem := range elems {
		if msg, ok := resolve(elem); ok {
			return msg
		}
	}
	return compact(value)
}

func resolveObject(value json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := stringField(fields[key]); ok {
			return s
		}
	}
	return compact(value)
}

// stringField reports whether raw holds a JSON string, an empty string included.
func stringField(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func compact(value json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return string(value)
	}
	return buf.String()
}
