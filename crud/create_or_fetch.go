package crud

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CreateOrFetch loads an existing row into dest, identified by the primary
// key or any fully populated unique constraint present in values, creating
// the row from values when no match exists. A fetched row is returned as-is;
// callers apply whatever updates they want afterwards, so an existing row is
// never re-parented implicitly. Returns true when a row was created.
func CreateOrFetch(tx *gorm.DB, dest interface{}, values map[string]interface{}) (bool, error) {
	s, err := Parse(tx, dest)
	if err != nil {
		return false, err
	}

	// Prefer the primary key when values carry it completely.
	if cond, ok := conditionFor(values, s.PrimaryFieldDBNames); ok {
		err := tx.Where(cond).First(dest).Error
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("failed to fetch by primary key: %w", err)
		}
		// An explicit key that matches nothing means create with that key.
		return true, create(tx, dest, values)
	}

	uniqueSets, err := UniqueConstraintColumns(tx, dest)
	if err != nil {
		return false, err
	}
	for _, cols := range uniqueSets {
		cond, ok := conditionFor(values, cols)
		if !ok {
			continue
		}
		err := tx.Where(cond).First(dest).Error
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("failed to fetch by unique constraint %v: %w", cols, err)
		}
	}

	return true, create(tx, dest, values)
}

func create(tx *gorm.DB, dest interface{}, values map[string]interface{}) error {
	if err := FromMap(tx, dest, values); err != nil {
		return err
	}
	if err := tx.Create(dest).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// conditionFor builds a where condition from the given columns, reporting
// false unless values populates every one of them.
func conditionFor(values map[string]interface{}, cols []string) (map[string]interface{}, bool) {
	if len(cols) == 0 {
		return nil, false
	}
	cond := make(map[string]interface{}, len(cols))
	for _, col := range cols {
		v, ok := values[col]
		if !ok || v == nil {
			return nil, false
		}
		cond[col] = v
	}
	return cond, true
}
