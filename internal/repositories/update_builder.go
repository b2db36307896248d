package repositories

import (
	"fmt"
	"strings"
)

// UpdateBuilder assembles "UPDATE table SET a = ?, b = ? WHERE ..." from the
// fields a partial update actually carries. Column names come from code,
// never from request input; values are always bound as parameters.
type UpdateBuilder struct {
	table string
	sets  []string
	args  []any
}

func NewUpdateBuilder(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
	return b
}

// Len is the number of assignments collected so far.
func (b *UpdateBuilder) Len() int {
	return len(b.sets)
}

// Build returns the statement and its arguments, SET values first and then
// whereArgs, matching placeholder order.
func (b *UpdateBuilder) Build(where string, whereArgs ...any) (string, []any, error) {
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update %s: no columns to set", b.table)
	}
	query := fmt.Sprintf("UPDATE %s SET %s", b.table, strings.Join(b.sets, ", "))
	if where != "" {
		query += " WHERE " + where
	}
	args := make([]any, 0, len(b.args)+len(whereArgs))
	args = append(args, b.args...)
	args = append(args, whereArgs...)
	return query, args, nil
}
