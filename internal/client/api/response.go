package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

const (
	// maxErrorBodyChars bounds the body excerpt carried by ResponseFormatError.
	maxErrorBodyChars = 200
	// maxMessageFields is how many field errors are folded into a message.
	maxMessageFields = 3
	// nonFieldErrorsKey is the Django REST framework key for form-level errors.
	nonFieldErrorsKey = "non_field_errors"
)

// classify turns a received response into a payload or a typed error.
// A 2xx response with an empty body yields a nil payload.
func classify(status int, contentType string, body []byte) (json.RawMessage, error) {
	ok := status >= 200 && status < 300
	trimmed := bytes.TrimSpace(body)
	if ok && len(trimmed) == 0 {
		return nil, nil
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !isJSONMediaType(mediaType) {
		return nil, &ResponseFormatError{
			Status:      status,
			ContentType: mediaType,
			Body:        truncate(string(trimmed), maxErrorBodyChars),
			HTML:        mediaType == "text/html" || looksLikeHTML(trimmed),
		}
	}

	if ok {
		if !json.Valid(trimmed) {
			return nil, &ResponseFormatError{
				Status:      status,
				ContentType: mediaType,
				Body:        truncate(string(trimmed), maxErrorBodyChars),
			}
		}
		return json.RawMessage(trimmed), nil
	}

	return nil, newHTTPError(status, trimmed)
}

func isJSONMediaType(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(string(body[:min(len(body), 64)]))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// newHTTPError builds the error for a JSON error body. The message is detail
// or message when present, otherwise the first few field errors in body order.
func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status}

	keys, values := decodeObject(body)
	var detail string
	for _, k := range keys {
		msgs := fieldMessages(values[k])
		switch k {
		case "detail", "message":
			if detail == "" && len(msgs) > 0 {
				detail = strings.Join(msgs, " ")
			}
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string][]string)
		}
		e.Fields[k] = msgs
	}

	e.Detail = detail
	switch {
	case detail != "":
		e.Message = detail
	case len(e.Fields) > 0:
		e.Message = joinFieldErrors(keys, e.Fields)
	default:
		e.Message = fmt.Sprintf("request failed with status %d %s", status, http.StatusText(status))
	}
	return e
}

func joinFieldErrors(keys []string, fields map[string][]string) string {
	parts := make([]string, 0, maxMessageFields)
	for _, k := range keys {
		msgs, ok := fields[k]
		if !ok {
			continue
		}
		text := strings.Join(msgs, " ")
		if k != nonFieldErrorsKey {
			text = k + ": " + text
		}
		parts = append(parts, text)
		if len(parts) == maxMessageFields {
			break
		}
	}
	return strings.Join(parts, "; ")
}

// decodeObject returns the keys of a JSON object in document order along with
// their raw values. Anything but an object yields no keys.
func decodeObject(body []byte) ([]string, map[string]json.RawMessage) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, nil
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := tok.(string)
		if !ok {
			break
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	return keys, values
}

// fieldMessages flattens a field error value: a string, an array of strings,
// or anything else rendered as compact JSON.
func fieldMessages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fieldMessages(item)...)
		}
		return out
	}
	if string(raw) == "null" || len(raw) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return []string{string(raw)}
	}
	return []string{buf.String()}
}
