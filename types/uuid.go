package types

import (
	"context"
	"database/sql/driver"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// UUID is a platform independent UUID column. It maps to the native uuid
// type on postgres and to a char(32) hex value everywhere else.
type UUID uuid.UUID

// NewUUID returns a random UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}

// ParseUUID parses canonical, hex and urn encoded UUID strings.
func ParseUUID(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("failed to parse UUID %q: %w", s, err)
	}
	return UUID(id), nil
}

// String returns the canonical dashed form.
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Hex returns the 32 character hex form stored on non-postgres dialects.
func (u UUID) Hex() string {
	return hex.EncodeToString(u[:])
}

// IsZero reports whether u is the zero UUID.
func (u UUID) IsZero() bool {
	return uuid.UUID(u) == uuid.Nil
}

// Value implements driver.Valuer using the canonical form.
func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Scan implements sql.Scanner, accepting canonical, hex and binary forms.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = UUID{}
		return nil
	case string:
		return u.scanString(v)
	case []byte:
		if len(v) == 16 {
			copy(u[:], v)
			return nil
		}
		return u.scanString(string(v))
	default:
		return fmt.Errorf("unsupported UUID source type %T", value)
	}
}

func (u *UUID) scanString(s string) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("failed to scan UUID %q: %w", s, err)
	}
	*u = UUID(id)
	return nil
}

// GormDBDataType picks the column type per dialect.
func (UUID) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "uuid"
	}
	return "char(32)"
}

// GormValue binds the dialect appropriate encoding.
func (u UUID) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	if db.Dialector.Name() == "postgres" {
		return gorm.Expr("?", u.String())
	}
	return gorm.Expr("?", u.Hex())
}
