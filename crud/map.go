package crud

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
)

// ToMap converts the column backed fields of model into a map keyed by
// database column name. When fields are given only those columns are
// included; unknown field names error.
func ToMap(db *gorm.DB, model interface{}, fields ...string) (map[string]interface{}, error) {
	s, err := Parse(db, model)
	if err != nil {
		return nil, err
	}

	rv := reflect.Indirect(reflect.ValueOf(model))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct or pointer to struct, got %T", model)
	}

	var filter map[string]bool
	if len(fields) > 0 {
		filter = make(map[string]bool, len(fields))
		for _, name := range fields {
			if s.LookUpField(name) == nil {
				return nil, fmt.Errorf("unknown field %q for model %s", name, s.Name)
			}
			filter[name] = true
		}
	}

	ctx := context.Background()
	out := make(map[string]interface{})
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		if filter != nil && !filter[f.DBName] && !filter[f.Name] {
			continue
		}
		value, _ := f.ValueOf(ctx, rv)
		out[f.DBName] = value
	}
	return out, nil
}

// FromMap assigns values onto model by database column name (struct field
// names are accepted too). Unknown keys error rather than being dropped
// silently. model must be a pointer.
func FromMap(db *gorm.DB, model interface{}, values map[string]interface{}) error {
	s, err := Parse(db, model)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("model must be a non-nil pointer, got %T", model)
	}
	elem := rv.Elem()

	ctx := context.Background()
	for name, value := range values {
		f := s.LookUpField(name)
		if f == nil {
			return fmt.Errorf("unknown field %q for model %s", name, s.Name)
		}
		if err := f.Set(ctx, elem, value); err != nil {
			return fmt.Errorf("failed to set field %q: %w", name, err)
		}
	}
	return nil
}
