//go:build unit
// +build unit

package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestUUID_ParseForms(t *testing.T) {
	id := NewUUID()

	fromCanonical, err := ParseUUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, fromCanonical)

	fromHex, err := ParseUUID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, fromHex)

	_, err = ParseUUID("not-a-uuid")
	assert.Error(t, err)
}

func TestUUID_Scan(t *testing.T) {
	id := NewUUID()

	tests := []struct {
		name  string
		value interface{}
	}{
		{"canonical string", id.String()},
		{"hex string", id.Hex()},
		{"byte slice", []byte(id.String())},
		{"raw bytes", id[:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scanned UUID
			require.NoError(t, scanned.Scan(tt.value))
			assert.Equal(t, id, scanned)
		})
	}
}

func TestUUID_ScanNilAndInvalid(t *testing.T) {
	var scanned UUID
	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, scanned.Scan("garbage"))
}

func TestUUID_Value(t *testing.T) {
	id := NewUUID()

	v, err := id.Value()
	require.NoError(t, err)
	assert.Equal(t, id.String(), v)
}

func TestUUID_GormValuePerDialect(t *testing.T) {
	id := NewUUID()
	ctx := context.Background()

	expr := id.GormValue(ctx, dialectDB(postgres.Dialector{}))
	require.Len(t, expr.Vars, 1)
	assert.Equal(t, id.String(), expr.Vars[0])

	expr = id.GormValue(ctx, dialectDB(fakeDialector{}))
	require.Len(t, expr.Vars, 1)
	assert.Equal(t, id.Hex(), expr.Vars[0])
}

func TestUUID_GormDBDataType(t *testing.T) {
	var id UUID
	assert.Equal(t, "uuid", id.GormDBDataType(dialectDB(postgres.Dialector{}), nil))
	assert.Equal(t, "char(32)", id.GormDBDataType(dialectDB(fakeDialector{}), nil))
}

func TestUUID_HexRoundTrip(t *testing.T) {
	id := NewUUID()
	assert.Len(t, id.Hex(), 32)

	parsed, err := ParseUUID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id.String(), parsed.String())
}
