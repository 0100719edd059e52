// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todocat/internal/service"
	"todocat/internal/state"
)

const (
	// Separator is the separator line around a category header.
	Separator = "------------"

	// NoTasks is printed by list when the visible collection is empty.
	NoTasks = "no tasks to display"
)

// FormatTask formats a task line.
// Format: "[x] {ID:>4}  {DESCRIPTION} ({CATEGORY})\n"
func FormatTask(w io.Writer, task service.Task) {
	mark := "[ ]"
	if task.IsCompleted {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%s %4d  %s (%s)\n", mark, task.ID, normalizeText(task.Description), state.CategoryName(task))
}

// FormatCategoryHeader formats the header printed above a filtered task list.
func FormatCategoryHeader(w io.Writer, cat service.Category) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, normalizeText(cat.Name))
	fmt.Fprintln(w, Separator)
}

// FormatCategory formats a category line for the categories command.
// Format: "{ID:>4}  {NAME}\n"
func FormatCategory(w io.Writer, cat service.Category) {
	fmt.Fprintf(w, "%4d  %s\n", cat.ID, normalizeText(cat.Name))
}

// FormatFieldErrors writes one "error: <field>: <messages>" line per field, sorted by field.
// The generic detail key is written without a field prefix.
func FormatFieldErrors(w io.Writer, errs map[string][]string) {
	for _, field := range service.FieldNames(errs) {
		msg := strings.Join(errs[field], " ")
		if field == state.DetailField {
			fmt.Fprintf(w, "error: %s\n", msg)
			continue
		}
		fmt.Fprintf(w, "error: %s: %s\n", field, msg)
	}
}

// normalizeText normalizes user text for single-line display.
// - Newlines are replaced with spaces
// - Empty or whitespace-only text becomes "(untitled)"
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
