// Package postgres implements the repository interfaces on PostgreSQL
// using database/sql with parameterized queries only.
package postgres

import (
	"strconv"
	"strings"
)

// maxInParams caps the values bound into one IN list. PostgreSQL accepts at
// most 65535 parameters per statement.
var maxInParams = 1000

// chunks splits values into slices of at most maxInParams.
func chunks(values []string) [][]string {
	var out [][]string
	for len(values) > maxInParams {
		out = append(out, values[:maxInParams])
		values = values[maxInParams:]
	}
	if len(values) > 0 {
		out = append(out, values)
	}
	return out
}

// placeholders returns "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

func lowerArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = strings.ToLower(v)
	}
	return args
}
