package residue

import (
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// NamespaceSQL is the UUID namespace under which SQL fingerprints are
// generated.
var NamespaceSQL = uuid.MustParse("75c7e3be-a5c7-414d-bc66-d64ae5d03f3d")

// FingerprintSQL returns a 32 character hex digest of a normalized version
// of sqltext. Normalization collapses runs of whitespace outside single
// quoted literals into a single space, so semantically identical SQL yields
// the same digest regardless of formatting. The digest is the version 5
// UUID of the normalized text under NamespaceSQL.
//
// Used to name otherwise unnamed check constraints, so that repeated schema
// builds emit identical DDL.
func FingerprintSQL(sqltext string) string {
	normalized := strings.TrimSpace(normalizeSQLWhitespace(sqltext))
	id := uuid.NewSHA1(NamespaceSQL, []byte(normalized))
	return hex.EncodeToString(id[:])
}

// normalizeSQLWhitespace collapses whitespace runs into single spaces,
// leaving the contents of single quoted literals untouched.
func normalizeSQLWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inQuote := false
	pendingSpace := false
	for _, r := range s {
		if r == '\'' {
			inQuote = !inQuote
		}
		if !inQuote && unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
