package columns

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError is returned when no header satisfies a FieldSpec.
type ColumnNotFoundError struct {
	Field    string
	Expected []string
	Actual   []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found: expected header containing [%s], got [%s]",
		e.Field,
		strings.Join(quoteAll(e.Expected), ", "),
		strings.Join(quoteAll(e.Actual), ", "),
	)
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
