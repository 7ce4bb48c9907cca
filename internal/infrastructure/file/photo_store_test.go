package file_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadpnp/field-productivity/internal/infrastructure/file"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPhotoStoreSaveOpenDelete(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "photos")
	store, err := file.NewPhotoStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, pngHeader)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(ref))

	rc, err := store.Open(ctx, ref)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, pngHeader, got)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, ref))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, store.Delete(ctx, ref))
}

func TestPhotoStoreRejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store, err := file.NewPhotoStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, file.ErrInvalidRef)
	require.ErrorIs(t, store.Delete(context.Background(), ""), file.ErrInvalidRef)
}
