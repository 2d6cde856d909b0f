package crud

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Parsed schemas are cached per process. The cache is keyed by model type,
// so the first naming strategy to parse a model wins for anything cached
// there; the helpers in this package only read column-level data, which does
// not vary across naming strategies.
var cacheStore = &sync.Map{}

// Parse returns the parsed schema for model using db's naming strategy.
func Parse(db *gorm.DB, model interface{}) (*schema.Schema, error) {
	s, err := schema.Parse(model, cacheStore, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model schema: %w", err)
	}
	return s, nil
}

// PrimaryKeyColumns returns the column names composing the primary key of
// the given model.
func PrimaryKeyColumns(db *gorm.DB, model interface{}) ([]string, error) {
	s, err := Parse(db, model)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), s.PrimaryFieldDBNames...), nil
}

// UniqueConstraintColumns returns the column sets of every unique index and
// unique column on the given model, sorted for deterministic iteration.
func UniqueConstraintColumns(db *gorm.DB, model interface{}) ([][]string, error) {
	s, err := Parse(db, model)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var sets [][]string

	add := func(cols []string) {
		key := strings.Join(cols, "\x00")
		if !seen[key] {
			seen[key] = true
			sets = append(sets, cols)
		}
	}

	for _, idx := range s.ParseIndexes() {
		if !strings.EqualFold(idx.Class, "unique") {
			continue
		}
		cols := make([]string, 0, len(idx.Fields))
		for _, f := range idx.Fields {
			cols = append(cols, f.DBName)
		}
		add(cols)
	}

	for _, f := range s.Fields {
		if f.Unique && f.DBName != "" {
			add([]string{f.DBName})
		}
	}

	sort.Slice(sets, func(i, j int) bool {
		return strings.Join(sets[i], "\x00") < strings.Join(sets[j], "\x00")
	})
	return sets, nil
}
