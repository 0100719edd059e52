package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field error messages, worded the way Django REST framework words them.
const (
	msgRequired   = "This field is required."
	msgNull       = "This field may not be null."
	msgBlank      = "This field may not be blank."
	msgNotString  = "Not a valid string."
	msgNotBoolean = "Must be a valid boolean."
	msgNameTaken  = "category with this name already exists."
	msgNotFound   = "No Task matches the given query."
)

const (
	maxNameLength = 255

	detailField    = "detail"
	nameField      = "name"
	descField      = "description"
	categoryField  = "category"
	completedField = "is_completed"
)

// fieldErrors collects per-field validation messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// payload is a decoded JSON object body.
type payload map[string]json.RawMessage

func decodePayload(body []byte) (payload, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("JSON parse error - %v", err)
	}
	if p == nil {
		return nil, errors.New("Invalid data. Expected a dictionary, but got null.")
	}
	return p, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// text reads a string field, trimmed. present is false when the field is
// absent or a message was recorded.
func (p payload) text(field string, required bool, errs fieldErrors) (value string, present bool) {
	raw, found := p[field]
	if !found {
		if required {
			errs.add(field, msgRequired)
		}
		return "", false
	}
	if isNull(raw) {
		errs.add(field, msgNull)
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs.add(field, msgNotString)
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs.add(field, msgBlank)
		return "", false
	}
	return s, true
}

// pk reads a primary-key field. Numbers and numeric strings are accepted.
func (p payload) pk(field string, required bool, errs fieldErrors) (id int64, present bool) {
	raw, found := p[field]
	if !found {
		if required {
			errs.add(field, msgRequired)
		}
		return 0, false
	}
	if isNull(raw) {
		errs.add(field, msgNull)
		return 0, false
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		errs.add(field, "Incorrect type. Expected pk value, received invalid.")
		return 0, false
	}

	switch t := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(t.String(), 10, 64)
		if err != nil {
			errs.add(field, fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", t.String()))
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			errs.add(field, "Incorrect type. Expected pk value, received str.")
			return 0, false
		}
		return n, true
	case bool:
		errs.add(field, "Incorrect type. Expected pk value, received bool.")
	case []any:
		errs.add(field, "Incorrect type. Expected pk value, received list.")
	default:
		errs.add(field, "Incorrect type. Expected pk value, received dict.")
	}
	return 0, false
}

// boolean reads an optional boolean field.
func (p payload) boolean(field string, errs fieldErrors) (value, present bool) {
	raw, found := p[field]
	if !found {
		return false, false
	}
	var b bool
	if isNull(raw) || json.Unmarshal(raw, &b) != nil {
		errs.add(field, msgNotBoolean)
		return false, false
	}
	return b, true
}

func validName(name string, errs fieldErrors) bool {
	if utf8.RuneCountInString(name) > maxNameLength {
		errs.add(nameField, fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength))
		return false
	}
	return true
}

func invalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}
