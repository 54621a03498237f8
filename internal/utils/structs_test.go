package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedStruct struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Ignored  string `db:"-"`
	Untagged string
	hidden   string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	got := StructTagValues(taggedStruct{})
	assert.Equal(t, []string{"id", "name"}, got)

	// Pointer input behaves the same.
	got = StructTagValues(&taggedStruct{})
	assert.Equal(t, []string{"id", "name"}, got)
}

func TestStructToMap(t *testing.T) {
	in := &taggedStruct{ID: "abc", Name: "thing", Ignored: "x", Untagged: "y", hidden: "z"}

	got := StructToMap(in)

	assert.Equal(t, map[string]any{"id": "abc", "name": "thing"}, got)
}

func TestStructHelpersPanicOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructTagValues(42) })
	assert.Panics(t, func() { StructToMap("nope") })
}

func TestErrorWrapOrNil(t *testing.T) {
	assert.NoError(t, ErrorWrapOrNil(nil, "context"))

	base := errors.New("boom")

	wrapped := ErrorWrapOrNil(base, "doing the thing")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "doing the thing: boom", wrapped.Error())

	assert.Equal(t, base, ErrorWrapOrNil(base, ""))
}

func TestNanoID(t *testing.T) {
	id := NanoID()
	assert.Len(t, id, NanoidSize)

	short := NanoIDSize(16)
	assert.Len(t, short, 16)

	assert.NotEqual(t, NanoID(), NanoID())
}
