package residue

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
	"gorm.io/gorm/schema"
)

// ConstraintKind identifies a class of schema constraint for naming purposes.
type ConstraintKind string

// Constraint kinds covered by the naming convention.
const (
	PrimaryKey ConstraintKind = "pk"
	ForeignKey ConstraintKind = "fk"
	UniqueKey  ConstraintKind = "uq"
	CheckKey   ConstraintKind = "ck"
	IndexKey   ConstraintKind = "ix"
)

// Convention maps constraint kinds to fmt name templates. Consistent
// constraint names are what make schema migrations able to reliably
// upgrade and downgrade across environments.
type Convention map[ConstraintKind]string

// defaultConvention is shared read-only by every Namer that does not carry
// its own convention. Never mutated after init.
var defaultConvention = Convention{
	PrimaryKey: "pk_%s",
	ForeignKey: "fk_%s_%s_%s",
	UniqueKey:  "uq_%s_%s",
	CheckKey:   "ck_%s_%s",
	IndexKey:   "ix_%s_%s",
}

// DefaultConvention returns a copy of the default naming convention. The
// returned map is owned by the caller; modifying it never affects bases
// already using the defaults.
func DefaultConvention() Convention {
	c := make(Convention, len(defaultConvention))
	for k, v := range defaultConvention {
		c[k] = v
	}
	return c
}

// Template returns the name template for kind, falling back to the default
// convention for kinds the receiver does not define.
func (c Convention) Template(kind ConstraintKind) string {
	if c != nil {
		if tmpl, ok := c[kind]; ok {
			return tmpl
		}
	}
	return defaultConvention[kind]
}

// Namer implements gorm's schema.Namer with deterministic constraint names.
// Table and column names are derived with go-openapi/inflect so the same
// model definitions always map to the same identifiers.
type Namer struct {
	TablePrefix   string
	SingularTable bool
	Convention    Convention
}

var _ schema.Namer = Namer{}

// TableName converts a struct name to its table name.
func (n Namer) TableName(table string) string {
	name := inflect.Underscore(table)
	if !n.SingularTable {
		name = inflect.Pluralize(name)
	}
	return n.TablePrefix + name
}

// SchemaName trims the table prefix back off a generated table name.
func (n Namer) SchemaName(table string) string {
	return strings.TrimPrefix(table, n.TablePrefix)
}

// ColumnName converts a struct field name to its column name.
func (n Namer) ColumnName(table, column string) string {
	return inflect.Underscore(column)
}

// JoinTableName converts a join table field name to its table name.
func (n Namer) JoinTableName(joinTable string) string {
	return n.TablePrefix + inflect.Underscore(joinTable)
}

// RelationshipFKName generates a deterministic foreign key constraint name
// from the owning table, the foreign key column and the referred table.
func (n Namer) RelationshipFKName(rel schema.Relationship) string {
	column := ""
	if len(rel.References) > 0 && rel.References[0].ForeignKey != nil {
		column = rel.References[0].ForeignKey.DBName
	}
	referred := ""
	if rel.FieldSchema != nil {
		referred = rel.FieldSchema.Table
	}
	return fmt.Sprintf(n.Convention.Template(ForeignKey), rel.Schema.Table, column, referred)
}

// CheckerName generates a check constraint name from a table and column.
func (n Namer) CheckerName(table, column string) string {
	return fmt.Sprintf(n.Convention.Template(CheckKey), table, column)
}

// IndexName generates an index name from a table and column.
func (n Namer) IndexName(table, column string) string {
	return fmt.Sprintf(n.Convention.Template(IndexKey), table, column)
}

// UniqueName generates a unique constraint name from a table and column.
func (n Namer) UniqueName(table, column string) string {
	return fmt.Sprintf(n.Convention.Template(UniqueKey), table, column)
}

// PrimaryKeyName generates a primary key constraint name for a table.
func (n Namer) PrimaryKeyName(table string) string {
	return fmt.Sprintf(n.Convention.Template(PrimaryKey), table)
}

// CheckConstraintName names an unnamed check constraint from the fingerprint
// of its raw SQL body, so arbitrary expressions still get stable names.
func (n Namer) CheckConstraintName(table, sqltext string) string {
	return fmt.Sprintf(n.Convention.Template(CheckKey), table, FingerprintSQL(sqltext))
}
