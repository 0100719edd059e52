package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestError_FieldErrors(t *testing.T) {
	err := &RequestError{
		Status: 400,
		Body: map[string]any{
			"description": []any{"This field is required."},
			"detail":      "Not found.",
			"category":    []any{"a", 3.0},
			"nested":      map[string]any{"k": "v"},
		},
	}

	fields := err.FieldErrors()
	assert.Equal(t, []string{"This field is required."}, fields["description"])
	assert.Equal(t, []string{"Not found."}, fields["detail"])
	assert.Equal(t, []string{"a", "3"}, fields["category"])
	assert.Equal(t, []string{`{"k":"v"}`}, fields["nested"])
	assert.Equal(t, []string{"category", "description", "detail", "nested"}, FieldNames(fields))
}

func TestRequestError_NonObjectBody(t *testing.T) {
	err := &RequestError{Status: 500, Body: []any{"x"}}
	assert.Nil(t, err.FieldErrors())
	assert.Nil(t, err.Messages("name"))

	err = &RequestError{Status: 502}
	assert.Nil(t, err.FieldErrors())
	assert.Equal(t, "request failed: 502 Bad Gateway", err.Error())
}

func TestRequestError_ErrorText(t *testing.T) {
	notFound := &RequestError{Status: 404, Body: map[string]any{"detail": "Not found."}}
	assert.Equal(t, "request failed: 404 Not Found: Not found.", notFound.Error())
	assert.True(t, notFound.NotFound())

	cause := errors.New("connection refused")
	transport := &RequestError{Err: cause}
	assert.Equal(t, "request failed: connection refused", transport.Error())
	assert.ErrorIs(t, transport, cause)
}
