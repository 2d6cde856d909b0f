package residue

import (
	"context"

	"gorm.io/gorm"
)

// Session returns the session scoped to ctx for this base, deriving a fresh
// one bound to ctx when the context carries none. Sessions stashed by a
// different base are never returned, so sessions from different bases cannot
// interleave.
func (b *Base) Session(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(b.ctxKey).(*gorm.DB); ok {
		return tx
	}
	return b.db.WithContext(ctx).Session(&gorm.Session{NewDB: true})
}

// NewContext derives a context carrying a fresh session for this base.
// Handlers that pass the returned context around share one unit of work;
// the session is released with the context.
func (b *Base) NewContext(ctx context.Context) (context.Context, *gorm.DB) {
	sess := b.db.WithContext(ctx).Session(&gorm.Session{NewDB: true})
	return context.WithValue(ctx, b.ctxKey, sess), sess
}

// Transaction runs fn inside a database transaction. The context passed to
// fn carries the transaction as its scoped session, so nested calls through
// Session observe the same transaction. Commit and rollback are handled by
// the ORM: a nil return commits, an error or panic rolls back.
func (b *Base) Transaction(ctx context.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	return b.Session(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, b.ctxKey, tx), tx)
	})
}
