package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmaster/internal/storage"
)

func TestStorage_LoadMissingKey(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load(context.Background(), "checkmaster_templates")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_SaveOverwrites(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "k", []byte(`[1]`)))
	require.NoError(t, s.Save(ctx, "k", []byte(`[1,2]`)))

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(got))
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkmaster.db")
	ctx := context.Background()

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "checkmaster_orders", []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "checkmaster_orders")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}
