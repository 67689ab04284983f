package csvimport

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed date or item id.
type ParseError struct {
	Kind  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Input, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

type UnknownStatusError struct {
	Input string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q", e.Input)
}

type UnknownPriorityError struct {
	Input string
}

func (e *UnknownPriorityError) Error() string {
	return fmt.Sprintf("unknown priority %q", e.Input)
}

type UnresolvedUserError struct {
	Input       string
	Known       []string
	Suggestions []string
}

func (e *UnresolvedUserError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not resolve user %q", e.Input)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	fmt.Fprintf(&b, "; known users: %s", strings.Join(e.Known, ", "))
	return b.String()
}

type MissingVendorError struct {
	Prefix string
}

func (e *MissingVendorError) Error() string {
	return fmt.Sprintf("vendor with prefix %q does not exist; create it first", e.Prefix)
}

// MissingCategoryError means a row's category was not reconciled before insert.
type MissingCategoryError struct {
	Name string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("category %q was not reconciled", e.Name)
}

// RowError ties a validation failure to a 1-based data row and a column.
type RowError struct {
	Row   int
	Line  int
	Field string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (line %d) %s: %v", e.Row, e.Line, e.Field, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ValidationError collects every row failure of a batch.
type ValidationError struct {
	Errors []RowError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d error(s):", len(e.Errors))
	for _, re := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(re.Error())
	}
	return b.String()
}

// Rows returns the distinct row numbers that failed, in report order.
func (e *ValidationError) Rows() []int {
	seen := make(map[int]struct{}, len(e.Errors))
	var rows []int
	for _, re := range e.Errors {
		if _, ok := seen[re.Row]; ok {
			continue
		}
		seen[re.Row] = struct{}{}
		rows = append(rows, re.Row)
	}
	return rows
}
