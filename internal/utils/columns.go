package utils

import (
	"fmt"
	"reflect"
)

// ColumnTag names the struct tag that maps a row field to its table column.
const ColumnTag = "db"

// Columns lists the tagged columns of a row struct in field order. Fields
// tagged "-", such as Service.Type which only picks the table, are skipped.
func Columns(row any) []string {
	var columns []string
	eachColumn(row, func(column string, _ reflect.Value) {
		columns = append(columns, column)
	})
	return columns
}

// ColumnValues maps each tagged column of row to its value, minus omit.
func ColumnValues(row any, omit ...string) map[string]any {
	values := make(map[string]any)
	eachColumn(row, func(column string, v reflect.Value) {
		values[column] = v.Interface()
	})
	for _, column := range omit {
		delete(values, column)
	}
	return values
}

// Without copies values minus keys. Upserts use it to keep the conflict key
// and created_at out of the DO UPDATE clause.
func Without(values map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(values))
	for column, v := range values {
		out[column] = v
	}
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

func eachColumn(row any, fn func(column string, v reflect.Value)) {
	v := reflect.ValueOf(row)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("utils: %T is not a row struct", row))
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		column := field.Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}
		fn(column, v.Field(i))
	}
}

// WrapOrNil wraps err with msg and passes nil through.
func WrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
