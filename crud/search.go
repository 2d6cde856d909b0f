package crud

import (
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Op names a comparison applied by a Filter.
type Op string

const (
	OpEq          Op = "eq"
	OpNe          Op = "ne"
	OpLt          Op = "lt"
	OpLe          Op = "le"
	OpGt          Op = "gt"
	OpGe          Op = "ge"
	OpIn          Op = "in"
	OpNotIn       Op = "notin"
	OpIsNull      Op = "isnull"
	OpIsNotNull   Op = "isnotnull"
	OpContains    Op = "contains"
	OpIContains   Op = "icontains"
	OpLike        Op = "like"
	OpILike       Op = "ilike"
	OpStartsWith  Op = "startswith"
	OpEndsWith    Op = "endswith"
	OpIStartsWith Op = "istartswith"
	OpIEndsWith   Op = "iendswith"
)

// Filter describes either a single comparison (Field, Op, Value) or a
// logical combination of nested filters (And, Or). Field accepts database
// column names and struct field names; an empty Op means OpEq.
type Filter struct {
	Field string
	Op    Op
	Value interface{}

	And []Filter
	Or  []Filter
}

func (f Filter) isEmpty() bool {
	return f.Field == "" && f.Op == "" && len(f.And) == 0 && len(f.Or) == 0
}

// Sort orders search results by a model field, ascending unless Desc is set.
// String fields sort case-insensitively.
type Sort struct {
	Field string
	Desc  bool
}

// Query bundles the filtering, ordering and paging parameters of a search.
// The zero value matches everything in model order.
type Query struct {
	Where  Filter
	Sort   []Sort
	Limit  int
	Offset int
}

// Search loads the rows matching q into dest, a pointer to a slice of
// models, and returns the total number of matching rows before Limit and
// Offset are applied.
func Search(tx *gorm.DB, dest interface{}, q Query) (int64, error) {
	s, err := Parse(tx, dest)
	if err != nil {
		return 0, err
	}

	var cond clause.Expression
	if !q.Where.isEmpty() {
		cond, err = buildCondition(s, q.Where)
		if err != nil {
			return 0, err
		}
	}

	count := tx.Model(dest)
	if cond != nil {
		count = count.Where(cond)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count matching %s rows: %w", s.Name, err)
	}

	find := tx.Model(dest)
	if cond != nil {
		find = find.Where(cond)
	}
	find, err = applySort(find, s, q.Sort)
	if err != nil {
		return 0, err
	}
	if q.Offset > 0 {
		find = find.Offset(q.Offset)
	}
	if q.Limit > 0 {
		find = find.Limit(q.Limit)
	}
	if err := find.Find(dest).Error; err != nil {
		return 0, fmt.Errorf("failed to search %s: %w", s.Name, err)
	}
	return total, nil
}

// Count returns the number of rows of model matching where.
func Count(tx *gorm.DB, model interface{}, where Filter) (int64, error) {
	s, err := Parse(tx, model)
	if err != nil {
		return 0, err
	}

	db := tx.Model(model)
	if !where.isEmpty() {
		cond, err := buildCondition(s, where)
		if err != nil {
			return 0, err
		}
		db = db.Where(cond)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count matching %s rows: %w", s.Name, err)
	}
	return total, nil
}

func buildCondition(s *schema.Schema, f Filter) (clause.Expression, error) {
	if len(f.And) > 0 && len(f.Or) > 0 {
		return nil, fmt.Errorf("filter cannot combine And and Or in one clause")
	}
	if len(f.And) > 0 {
		exprs, err := buildConditions(s, f.And)
		if err != nil {
			return nil, err
		}
		return clause.And(exprs...), nil
	}
	if len(f.Or) > 0 {
		exprs, err := buildConditions(s, f.Or)
		if err != nil {
			return nil, err
		}
		return clause.Or(exprs...), nil
	}

	if f.Field == "" {
		return nil, fmt.Errorf("filter requires a field or a nested And/Or clause")
	}
	field := s.LookUpField(f.Field)
	if field == nil || field.DBName == "" {
		return nil, fmt.Errorf("unknown field %q for model %s", f.Field, s.Name)
	}

	col := clause.Column{Name: field.DBName}
	op := f.Op
	if op == "" {
		op = OpEq
	}
	switch op {
	case OpEq:
		return clause.Eq{Column: col, Value: f.Value}, nil
	case OpNe:
		return clause.Neq{Column: col, Value: f.Value}, nil
	case OpLt:
		return clause.Lt{Column: col, Value: f.Value}, nil
	case OpLe:
		return clause.Lte{Column: col, Value: f.Value}, nil
	case OpGt:
		return clause.Gt{Column: col, Value: f.Value}, nil
	case OpGe:
		return clause.Gte{Column: col, Value: f.Value}, nil
	case OpIn:
		return clause.IN{Column: col, Values: valueList(f.Value)}, nil
	case OpNotIn:
		return clause.Not(clause.IN{Column: col, Values: valueList(f.Value)}), nil
	case OpIsNull:
		return clause.Eq{Column: col, Value: nil}, nil
	case OpIsNotNull:
		return clause.Neq{Column: col, Value: nil}, nil
	case OpContains, OpLike:
		return clause.Like{Column: col, Value: "%" + pattern(f.Value) + "%"}, nil
	case OpIContains, OpILike:
		return insensitiveLike(col, "%"+pattern(f.Value)+"%"), nil
	case OpStartsWith:
		return clause.Like{Column: col, Value: pattern(f.Value) + "%"}, nil
	case OpEndsWith:
		return clause.Like{Column: col, Value: "%" + pattern(f.Value)}, nil
	case OpIStartsWith:
		return insensitiveLike(col, pattern(f.Value)+"%"), nil
	case OpIEndsWith:
		return insensitiveLike(col, "%"+pattern(f.Value)), nil
	}
	return nil, fmt.Errorf("unknown comparison %q", f.Op)
}

func buildConditions(s *schema.Schema, filters []Filter) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		expr, err := buildCondition(s, f)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func insensitiveLike(col clause.Column, pattern string) clause.Expression {
	return clause.Expr{SQL: "lower(?) LIKE lower(?)", Vars: []interface{}{col, pattern}}
}

func pattern(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func valueList(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []interface{}{v}
}

func applySort(db *gorm.DB, s *schema.Schema, sorts []Sort) (*gorm.DB, error) {
	for _, srt := range sorts {
		field := s.LookUpField(srt.Field)
		if field == nil || field.DBName == "" {
			return nil, fmt.Errorf("unknown sort field %q for model %s", srt.Field, s.Name)
		}
		if field.DataType == schema.String {
			// Sort strings case-insensitively.
			dir := ""
			if srt.Desc {
				dir = " DESC"
			}
			db = db.Order(fmt.Sprintf("lower(%s)%s", field.DBName, dir))
		} else {
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Name: field.DBName},
				Desc:   srt.Desc,
			})
		}
	}
	return db, nil
}
