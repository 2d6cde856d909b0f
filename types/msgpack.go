package types

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Msgpack stores a binary msgpack payload, useful for compact structured
// blobs that never need to be queried. Maps to bytea on postgres and blob
// everywhere else.
type Msgpack []byte

// NewMsgpack marshals v into a msgpack column value.
func NewMsgpack(v interface{}) (Msgpack, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal msgpack value: %w", err)
	}
	return Msgpack(data), nil
}

// Decode unmarshals the payload into dst.
func (m Msgpack) Decode(dst interface{}) error {
	if len(m) == 0 {
		return errors.New("cannot decode empty msgpack value")
	}
	if err := msgpack.Unmarshal(m, dst); err != nil {
		return fmt.Errorf("failed to unmarshal msgpack value: %w", err)
	}
	return nil
}

// Value implements driver.Valuer.
func (m Msgpack) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return []byte(m), nil
}

// Scan implements sql.Scanner.
func (m *Msgpack) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		*m = append(Msgpack(nil), v...)
		return nil
	case string:
		*m = Msgpack(v)
		return nil
	default:
		return fmt.Errorf("unsupported msgpack source type %T", value)
	}
}

// GormDBDataType picks the column type per dialect.
func (Msgpack) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "bytea"
	}
	return "blob"
}
