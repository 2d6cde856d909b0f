//go:build unit
// +build unit

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

type msgpackPayload struct {
	Name  string
	Count int
}

func TestMsgpack_RoundTrip(t *testing.T) {
	payload := msgpackPayload{Name: "widget", Count: 3}

	m, err := NewMsgpack(payload)
	require.NoError(t, err)

	var decoded msgpackPayload
	require.NoError(t, m.Decode(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestMsgpack_DecodeEmpty(t *testing.T) {
	var m Msgpack
	assert.Error(t, m.Decode(&msgpackPayload{}))
}

func TestMsgpack_ValueAndScan(t *testing.T) {
	m, err := NewMsgpack(msgpackPayload{Name: "a", Count: 1})
	require.NoError(t, err)

	v, err := m.Value()
	require.NoError(t, err)
	require.IsType(t, []byte(nil), v)

	var scanned Msgpack
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, m, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestMsgpack_NilValue(t *testing.T) {
	var m Msgpack
	v, err := m.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMsgpack_GormDBDataType(t *testing.T) {
	var m Msgpack
	assert.Equal(t, "bytea", m.GormDBDataType(dialectDB(postgres.Dialector{}), nil))
	assert.Equal(t, "blob", m.GormDBDataType(dialectDB(fakeDialector{}), nil))
}
