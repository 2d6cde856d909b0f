// Package residue provides convenience utilities layered on top of GORM.
// It supplies deterministic constraint naming for stable schema migrations,
// a base/session factory that scopes sessions per execution context, and
// helpers for declaring models against a single schema-of-record. Query
// planning, pooling, transactions and SQL generation stay with GORM and
// the database drivers.
package residue
