package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// InsertBuilder writes one row taken from a db-tagged struct.
type InsertBuilder struct {
	table     string
	row       any
	conflict  []string
	returning []string
}

func Insert(table string, row any) *InsertBuilder {
	return &InsertBuilder{table: table, row: row}
}

// OnConflictUpdate turns the insert into an upsert keyed on target: every
// other written column takes the incoming value. Both SQLite and Postgres
// accept the generated clause.
func (b *InsertBuilder) OnConflictUpdate(target ...string) *InsertBuilder {
	b.conflict = target
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = columns
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errors.New("insert: no table")
	}
	value := reflect.ValueOf(b.row)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("insert into %s: nil row", b.table)
		}
		value = value.Elem()
	}
	if !value.IsValid() {
		return "", nil, fmt.Errorf("insert into %s: nil row", b.table)
	}
	fields, err := modelFields(value.Type())
	if err != nil {
		return "", nil, fmt.Errorf("insert into %s: %w", b.table, err)
	}

	columns := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		if f.readonly {
			continue
		}
		columns = append(columns, f.column)
		args = append(args, value.Field(f.index).Interface())
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert into %s: every column is readonly", b.table)
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(columns, ", "))
	buf.WriteString(") VALUES (")
	buf.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
	buf.WriteByte(')')

	if len(b.conflict) > 0 {
		updates := make([]string, 0, len(columns))
		for _, c := range columns {
			if !slices.Contains(b.conflict, c) {
				updates = append(updates, c+" = excluded."+c)
			}
		}
		buf.WriteString(" ON CONFLICT (")
		buf.WriteString(strings.Join(b.conflict, ", "))
		if len(updates) == 0 {
			buf.WriteString(") DO NOTHING")
		} else {
			buf.WriteString(") DO UPDATE SET ")
			buf.WriteString(strings.Join(updates, ", "))
		}
	}
	if len(b.returning) > 0 {
		buf.WriteString(" RETURNING ")
		buf.WriteString(strings.Join(b.returning, ", "))
	}
	return buf.String(), args, nil
}
