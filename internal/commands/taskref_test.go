package commands

import (
	"testing"
)

func TestParseTaskID_Numeric(t *testing.T) {
	id, err := ParseTaskID([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 5 {
		t.Errorf("expected id 5, got %d", id)
	}
}

func TestParseTaskID_HashPrefix(t *testing.T) {
	id, err := ParseTaskID([]string{"#12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12 {
		t.Errorf("expected id 12, got %d", id)
	}
}

func TestParseTaskID_Empty(t *testing.T) {
	_, err := ParseTaskID(nil)
	if err != ErrTaskIDRequired {
		t.Errorf("expected ErrTaskIDRequired, got %v", err)
	}

	_, err = ParseTaskID([]string{"#"})
	if err != ErrTaskIDRequired {
		t.Errorf("expected ErrTaskIDRequired for bare '#', got %v", err)
	}
}

func TestParseTaskID_Invalid(t *testing.T) {
	for _, ref := range []string{"abc", "a1", "-3", "1.5", "0"} {
		_, err := ParseTaskID([]string{ref})
		if err == nil {
			t.Errorf("expected error for %q", ref)
			continue
		}
		expectedMsg := "invalid task id: " + ref
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	}
}

func TestParseTaskID_TooManyArgs(t *testing.T) {
	_, err := ParseTaskID([]string{"1", "2"})
	if err == nil {
		t.Fatal("expected error for two ids")
	}
	expectedMsg := "too many arguments: 1 2"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{"٣", false},
	}

	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
