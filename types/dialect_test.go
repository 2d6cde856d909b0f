//go:build unit
// +build unit

package types

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// fakeDialector stands in for any dialect without a native column type.
type fakeDialector struct{}

func (fakeDialector) Name() string                                                     { return "other" }
func (fakeDialector) Initialize(*gorm.DB) error                                        { return nil }
func (fakeDialector) Migrator(*gorm.DB) gorm.Migrator                                  { return nil }
func (fakeDialector) DataTypeOf(*schema.Field) string                                  { return "" }
func (fakeDialector) DefaultValueOf(*schema.Field) clause.Expression                   { return clause.Expr{} }
func (fakeDialector) BindVarTo(writer clause.Writer, stmt *gorm.Statement, v interface{}) {}
func (fakeDialector) QuoteTo(clause.Writer, string)                                    {}
func (fakeDialector) Explain(sql string, vars ...interface{}) string                   { return sql }

func dialectDB(d gorm.Dialector) *gorm.DB {
	return &gorm.DB{Config: &gorm.Config{Dialector: d}}
}
