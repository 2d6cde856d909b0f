package query

import (
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Defaults applied where a window or granularity is required but unset.
const (
	DefaultInterval    = "1 month"
	DefaultGranularity = "1 day"
)

var (
	identifierRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	leadingDigits = regexp.MustCompile(`^\s*\d+`)
)

// Window bounds a date constraint. Interval is a postgres interval string
// such as "2 weeks", used to derive the missing bound when only one of
// Start and End is set. A zero Window constrains nothing.
type Window struct {
	Start    *time.Time
	End      *time.Time
	Interval string
}

// ByDateWindow returns a scope constraining column to the window:
//
//	sess.Scopes(query.ByDateWindow("created_at", w)).Find(&rows)
//
// With both bounds set the interval is ignored; with one bound set the
// interval derives the other; with only an interval set the window ends at
// the current time.
func ByDateWindow(column string, w Window) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !identifierRe.MatchString(column) {
			_ = db.AddError(fmt.Errorf("invalid column identifier %q", column))
			return db
		}

		switch {
		case w.Start != nil && w.End != nil:
			return db.Where(column+" >= ? AND "+column+" <= ?", w.Start, w.End)
		case w.Start != nil && w.Interval != "":
			return db.Where(column+" >= ? AND "+column+" <= ?::date + ?::interval",
				w.Start, w.Start, w.Interval)
		case w.Start != nil:
			return db.Where(column+" >= ?", w.Start)
		case w.End != nil && w.Interval != "":
			return db.Where(column+" <= ? AND "+column+" >= ?::date - ?::interval",
				w.End, w.End, w.Interval)
		case w.End != nil:
			return db.Where(column+" <= ?", w.End)
		case w.Interval != "":
			return db.Where(column+" >= ?::date - ?::interval", time.Now().UTC(), w.Interval)
		default:
			return db
		}
	}
}

// DateSeries returns a generate_series expression producing one row per
// date bucket of the given granularity across the window. Granularity
// accepts bare units, "day" becomes "1 day".
func DateSeries(w Window, granularity string) clause.Expr {
	g := normalizeGranularity(granularity)

	switch {
	case w.Start != nil && w.End != nil:
		return gorm.Expr("generate_series(?::timestamp, ?::timestamp, ?::interval)",
			w.Start, w.End, g)
	case w.Start != nil && w.Interval != "":
		return gorm.Expr("generate_series(?::timestamp, ?::date + ?::interval, ?::interval)",
			w.Start, w.Start, w.Interval, g)
	case w.Start != nil:
		return gorm.Expr("generate_series(?::timestamp, ?::timestamp, ?::interval)",
			w.Start, time.Now().UTC(), g)
	}

	end := time.Now().UTC()
	if w.End != nil {
		end = *w.End
	}
	interval := w.Interval
	if interval == "" {
		interval = DefaultInterval
	}
	return gorm.Expr("generate_series(?::date - ?::interval, ?::timestamp, ?::interval)",
		end, interval, end, g)
}

// FillDateGaps wraps an aggregate query grouped by date so every bucket in
// the window appears, zero-valued where the aggregate had no rows. The
// subquery must label its group-by date column dateLabel and its aggregate
// column valueLabel.
func FillDateGaps(sub *gorm.DB, dateLabel, valueLabel string, w Window, granularity string) *gorm.DB {
	session := sub.Session(&gorm.Session{NewDB: true})

	if !identifierRe.MatchString(dateLabel) {
		_ = session.AddError(fmt.Errorf("invalid date label %q", dateLabel))
		return session
	}
	if !identifierRe.MatchString(valueLabel) {
		_ = session.AddError(fmt.Errorf("invalid value label %q", valueLabel))
		return session
	}

	series := DateSeries(w, granularity)
	return session.Raw(
		"SELECT "+dateLabel+", COALESCE("+valueLabel+", 0) AS "+valueLabel+
			" FROM ((?) UNION (SELECT ? AS "+dateLabel+", 0 AS "+valueLabel+
			")) AS union_query ORDER BY "+dateLabel,
		sub, series)
}

// normalizeGranularity defaults empty granularities and prefixes bare units
// with a count of one.
func normalizeGranularity(granularity string) string {
	if granularity == "" {
		return DefaultGranularity
	}
	if !leadingDigits.MatchString(granularity) {
		return "1 " + granularity
	}
	return granularity
}
