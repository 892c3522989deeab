package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(ctx, StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)

	id := uuid.New()
	path, err := s.Upload(ctx, id, "venue ceremony.png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, id.String()[:2]+"/"))
	assert.True(t, strings.HasSuffix(path, "_venue_ceremony.png"))

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Download(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorageStaysInsideBase(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownStorageType(t *testing.T) {
	_, err := NewStorage(context.Background(), StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.PNG"))
	assert.Equal(t, "image/jpeg", ContentType("a.jpeg"))
	assert.Equal(t, "application/octet-stream", ContentType("a"))
}
