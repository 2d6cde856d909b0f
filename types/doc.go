// Package types contains portable column types for GORM models. Each type
// picks the best native column per dialect and falls back to a portable
// encoding everywhere else, so the same model definition works unchanged
// against postgres, mysql and sqlite.
package types
