// Package crud provides model reflection helpers built on gorm's schema
// parser: primary key and unique constraint introspection, map based column
// conversion and a fetch-or-create primitive keyed on whichever identifying
// columns a value carries.
package crud
