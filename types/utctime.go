package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// sqlite stores datetimes as text, so scanning has to parse a few layouts.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// UTCTime normalizes timestamps to UTC on both save and load. It maps to
// timestamptz on postgres and datetime everywhere else.
type UTCTime struct {
	time.Time
}

// NewUTCTime converts t to UTC.
func NewUTCTime(t time.Time) UTCTime {
	return UTCTime{t.UTC()}
}

// Value implements driver.Valuer, always binding UTC.
func (t UTCTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time.UTC(), nil
}

// Scan implements sql.Scanner, converting whatever the driver returns
// back to UTC.
func (t *UTCTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("unsupported UTCTime source type %T", value)
	}
}

func (t *UTCTime) scanString(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("failed to parse timestamp %q", s)
}

// GormDBDataType picks the column type per dialect.
func (UTCTime) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "timestamptz"
	}
	return "datetime"
}
