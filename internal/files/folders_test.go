package files

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/infra/database/memory"
	"github.com/srirampandi55/Cloudify/internal/infra/storage/local"
)

func newTestFolders(t *testing.T) *Folders {
	t.Helper()
	repo := memory.NewRepo()
	store, err := local.New(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return &Folders{Log: log.New(io.Discard, "", 0), Repo: repo, Store: store}
}

func TestResolvePath(t *testing.T) {
	f := &Folders{}
	owner := uuid.New()

	p, err := f.ResolvePath(owner, "docs")
	require.NoError(t, err)
	require.Equal(t, owner.String()+"/docs", p)

	// корень неймспейса — без сегментов
	p, err = f.ResolvePath(owner)
	require.NoError(t, err)
	require.Equal(t, owner.String(), p)

	for _, bad := range []string{"", "  ", ".", "..", "a/b", `a\b`, "a..b", "\x00"} {
		_, err := f.ResolvePath(owner, bad)
		require.ErrorIs(t, err, domain.ErrBadParams, "segment %q", bad)
	}
}

func TestFoldersCreate(t *testing.T) {
	ctx := context.Background()
	folders := newTestFolders(t)
	owner := uuid.New()

	created, err := folders.Create(ctx, owner, "photos")
	require.NoError(t, err)
	require.Equal(t, "photos", created.Name)
	require.Equal(t, owner.String()+"/photos", created.Path)

	// директория реально появилась
	exists, err := folders.Store.Exists(ctx, created.Path)
	require.NoError(t, err)
	require.True(t, exists)

	// повтор — конфликт
	_, err = folders.Create(ctx, owner, "photos")
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	// у другого владельца то же имя свободно
	_, err = folders.Create(ctx, uuid.New(), "photos")
	require.NoError(t, err)
}

func TestFoldersEnsure(t *testing.T) {
	ctx := context.Background()
	folders := newTestFolders(t)
	owner := uuid.New()

	first, err := folders.Ensure(ctx, owner, "docs")
	require.NoError(t, err)

	second, err := folders.Ensure(ctx, owner, "docs")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}
