package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(Files(), "sql")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for _, e := range entries {
		body, err := fs.ReadFile(Files(), "sql/"+e.Name())
		require.NoError(t, err)
		text := string(body)
		assert.Contains(t, text, "-- +goose Up", e.Name())
		assert.Contains(t, text, "-- +goose Down", e.Name())
	}

	assert.True(t, strings.HasPrefix(entries[0].Name(), "00001_"))
}
