package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// RequestError is the single error shape for failed backend calls.
//
// Status is the HTTP status, or 0 when the request never got a response.
// Body is the parsed JSON response body, or nil when it was empty or not JSON.
// Err holds the transport error, if any.
type RequestError struct {
	Status int
	Body   any
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	if detail := e.Messages("detail"); len(detail) > 0 {
		return fmt.Sprintf("request failed: %d %s: %s", e.Status, http.StatusText(e.Status), detail[0])
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the backend answered 404.
func (e *RequestError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// FieldErrors returns the body as field-keyed messages.
// String values become one-element lists; lists keep their string items;
// anything else is rendered as JSON. Returns nil when the body is not an object.
func (e *RequestError) FieldErrors() map[string][]string {
	obj, ok := e.Body.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(obj))
	for key, value := range obj {
		fields[key] = messages(value)
	}
	return fields
}

// Messages returns the messages for a single field, or nil.
func (e *RequestError) Messages(field string) []string {
	obj, ok := e.Body.(map[string]any)
	if !ok {
		return nil
	}
	value, ok := obj[field]
	if !ok {
		return nil
	}
	return messages(value)
}

// FieldNames returns the keys of FieldErrors in sorted order.
func FieldNames(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func messages(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, jsonText(item))
		}
		return out
	default:
		return []string{jsonText(v)}
	}
}

func jsonText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
