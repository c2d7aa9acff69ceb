package local

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return s
}

func TestWriteOpen(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	n, err := s.Write(ctx, "owner/a.bin", strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, int64(5), n)

	rc, size, err := s.Open(ctx, "owner/a.bin")
	require.NoError(t, err)
	defer rc.Close()
	require.Equal(t, int64(5), size)

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(b))

	// повторная запись по тому же пути — отказ (O_EXCL)
	_, err = s.Write(ctx, "owner/a.bin", strings.NewReader("other"))
	require.Error(t, err)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Write(ctx, "owner/old", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Rename(ctx, "owner/old", "owner/sub/new"))

	exists, err := s.Exists(ctx, "owner/old")
	require.NoError(t, err)
	require.False(t, exists)
	exists, err = s.Exists(ctx, "owner/sub/new")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Write(ctx, "owner/x", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "owner/x"))
	// отсутствие объекта — не ошибка
	require.NoError(t, s.Remove(ctx, "owner/x"))
}

func TestEscapeGuard(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, p := range []string{"../evil", "..", "/etc/passwd", "a/../../evil", "."} {
		_, err := s.Write(ctx, p, strings.NewReader("x"))
		require.Error(t, err, "path %q", p)
	}
}

func TestMakeDirExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	exists, err := s.Exists(ctx, "owner/dir")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, s.MakeDir(ctx, "owner/dir"))

	exists, err = s.Exists(ctx, "owner/dir")
	require.NoError(t, err)
	require.True(t, exists)
}
