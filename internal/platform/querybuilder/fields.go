package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// readonlyOption marks a column the database fills in, such as a serial id.
// It is read by Select but never written by Insert. sqlx ignores tag options,
// so the same struct scans rows and builds inserts.
const readonlyOption = "readonly"

type field struct {
	column   string
	index    int
	readonly bool
}

var fieldCache sync.Map // reflect.Type -> []field

func modelFields(t reflect.Type) ([]field, error) {
	if t == nil {
		return nil, fmt.Errorf("model is nil")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model %s is not a struct", t)
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field), nil
	}

	fields := make([]field, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, field{
			column:   name,
			index:    i,
			readonly: strings.TrimSpace(opts) == readonlyOption,
		})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("model %s has no db columns", t)
	}

	fieldCache.Store(t, fields)
	return fields, nil
}

// Columns lists every db column of model in field order, readonly ones
// included. It returns nil for anything that is not a tagged struct, which
// makes the following Select fail in ToSQL.
func Columns(model any) []string {
	fields, err := modelFields(reflect.TypeOf(model))
	if err != nil {
		return nil
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.column
	}
	return out
}
