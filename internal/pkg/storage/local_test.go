package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:3000/uploads/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadURLDelete(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	path, err := s.Upload(ctx, strings.NewReader("img"), "avatars/a.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/a.png", path)

	data, err := os.ReadFile(filepath.Join(s.BasePath(), "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	url, err := s.GetURL(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/avatars/a.png", url)

	back, ok := s.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, path, back)

	require.NoError(t, s.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(s.BasePath(), "avatars", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s := newLocal(t)

	_, err := s.Upload(context.Background(), strings.NewReader("x"), "../escape.png", "image/png")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, ok := s.PathFromURL("http://localhost:3000/uploads/../../etc/passwd")
	assert.False(t, ok)

	_, ok = s.PathFromURL("https://cdn.example.com/a.png")
	assert.False(t, ok)
}
