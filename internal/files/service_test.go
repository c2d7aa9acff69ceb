package files

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/infra/database/memory"
	"github.com/srirampandi55/Cloudify/internal/infra/storage/local"
)

var testAllowed = []string{"image/jpeg", "image/png", "application/pdf"}

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	repo := memory.NewRepo()
	store, err := local.New(t.TempDir(), logger)
	require.NoError(t, err)
	folders := &Folders{Log: logger, Repo: repo, Store: store}
	return NewService(logger, repo, folders, store, testAllowed)
}

func mustUpload(t *testing.T, svc *Service, owner domain.UserID, name, content string) domain.File {
	t.Helper()
	f, err := svc.Upload(context.Background(), UploadInput{
		Owner: owner,
		Name:  name,
		MIME:  "image/png",
		Body:  strings.NewReader(content),
	})
	require.NoError(t, err)
	return f
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	f := mustUpload(t, svc, owner, "cat.png", "binary-bytes")
	require.Equal(t, "cat.png", f.Name)
	require.Equal(t, int64(len("binary-bytes")), f.SizeBytes)
	require.Equal(t, domain.AccessPrivate, f.Access)
	require.Nil(t, f.FolderID)

	// объект лежит под неймспейсом владельца
	require.True(t, strings.HasPrefix(f.StoragePath, owner.String()+"/"))

	exists, err := svc.Store.Exists(ctx, f.StoragePath)
	require.NoError(t, err)
	require.True(t, exists)

	// содержимое читается назад байт в байт
	_, rc, err := svc.Open(ctx, f.ID, &owner, "")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "binary-bytes", string(b))
}

func TestUploadUnsupportedType(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	_, err := svc.Upload(ctx, UploadInput{
		Owner: owner,
		Name:  "app.exe",
		MIME:  "application/x-msdownload",
		Body:  strings.NewReader("MZ"),
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedType)

	// отказ ничего не оставляет: ни записей, ни байтов
	list, err := svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUploadIntoFolder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	folder, err := svc.Folders.Create(ctx, owner, "docs")
	require.NoError(t, err)

	f, err := svc.Upload(ctx, UploadInput{
		Owner:    owner,
		FolderID: &folder.ID,
		Name:     "report.pdf",
		MIME:     "application/pdf",
		Body:     strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(f.StoragePath, folder.Path+"/"))

	// чужая папка невидима
	_, err = svc.Upload(ctx, UploadInput{
		Owner:    uuid.New(),
		FolderID: &folder.ID,
		Name:     "sneak.pdf",
		MIME:     "application/pdf",
		Body:     strings.NewReader("%PDF"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	f := mustUpload(t, svc, owner, "old.png", "data")
	oldPath := f.StoragePath

	out, err := svc.Rename(ctx, f.ID, owner, "new.png")
	require.NoError(t, err)
	require.Equal(t, "new.png", out.Name)
	require.NotEqual(t, oldPath, out.StoragePath)

	// старого объекта больше нет, новый на месте
	exists, err := svc.Store.Exists(ctx, oldPath)
	require.NoError(t, err)
	require.False(t, exists)
	exists, err = svc.Store.Exists(ctx, out.StoragePath)
	require.NoError(t, err)
	require.True(t, exists)

	_, err = svc.Rename(ctx, f.ID, owner, "")
	require.ErrorIs(t, err, domain.ErrBadParams)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	f := mustUpload(t, svc, owner, "pic.png", "data")

	// папки ещё нет — move создаёт её на лету
	out, err := svc.Move(ctx, f.ID, owner, "albums")
	require.NoError(t, err)
	require.NotNil(t, out.FolderID)

	folder, err := svc.Folders.Repo.FolderByID(ctx, *out.FolderID)
	require.NoError(t, err)
	require.Equal(t, "albums", folder.Name)
	require.True(t, strings.HasPrefix(out.StoragePath, folder.Path+"/"))

	// повторный move в ту же папку — no-op
	again, err := svc.Move(ctx, f.ID, owner, "albums")
	require.NoError(t, err)
	require.Equal(t, out.StoragePath, again.StoragePath)
}

func TestOwnerOnlyMutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()
	stranger := uuid.New()

	f := mustUpload(t, svc, owner, "mine.png", "data")

	_, err := svc.Rename(ctx, f.ID, stranger, "stolen.png")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Move(ctx, f.ID, stranger, "loot")
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(ctx, f.ID, stranger)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Share(ctx, f.ID, stranger, domain.AccessPublic, nil)
	require.ErrorIs(t, err, domain.ErrForbidden)

	// запись не пострадала
	got, err := svc.Files.FileByID(ctx, f.ID)
	require.NoError(t, err)
	require.Equal(t, "mine.png", got.Name)
	require.Equal(t, domain.AccessPrivate, got.Access)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	f := mustUpload(t, svc, owner, "gone.png", "data")

	require.NoError(t, svc.Delete(ctx, f.ID, owner))

	exists, err := svc.Store.Exists(ctx, f.StoragePath)
	require.NoError(t, err)
	require.False(t, exists)

	// повтор по тому же id — только ErrNotFound
	err = svc.Delete(ctx, f.ID, owner)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShare(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()
	grantee := uuid.New()

	f := mustUpload(t, svc, owner, "doc.png", "data")

	// restricted: выпускается токен, гранты заменяются целиком
	out, err := svc.Share(ctx, f.ID, owner, domain.AccessRestricted, []domain.UserID{grantee})
	require.NoError(t, err)
	require.Equal(t, domain.AccessRestricted, out.Access)
	require.NotEmpty(t, out.ShareToken)
	require.Equal(t, []domain.UserID{grantee}, out.SharedWith)

	firstToken := out.ShareToken

	// повторный share перевыпускает токен, старый умирает
	out, err = svc.Share(ctx, f.ID, owner, domain.AccessRestricted, nil)
	require.NoError(t, err)
	require.NotEqual(t, firstToken, out.ShareToken)
	require.Empty(t, out.SharedWith)

	_, err = svc.AccessShared(ctx, f.ID, nil, firstToken)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AccessShared(ctx, f.ID, nil, out.ShareToken)
	require.NoError(t, err)

	// уход из restricted гасит токен
	out, err = svc.Share(ctx, f.ID, owner, domain.AccessPublic, nil)
	require.NoError(t, err)
	require.Empty(t, out.ShareToken)

	_, err = svc.Share(ctx, f.ID, owner, domain.AccessType("whatever"), nil)
	require.ErrorIs(t, err, domain.ErrBadParams)
}

func TestAccessShared(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()
	stranger := uuid.New()

	f := mustUpload(t, svc, owner, "doc.png", "data")

	// private: чужим и анонимам — отказ, несуществующий id — not found
	_, err := svc.AccessShared(ctx, f.ID, &stranger, "")
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AccessShared(ctx, uuid.New(), &stranger, "")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Share(ctx, f.ID, owner, domain.AccessPublic, nil)
	require.NoError(t, err)

	got, err := svc.AccessShared(ctx, f.ID, nil, "")
	require.NoError(t, err)
	require.Equal(t, f.ID, got.ID)
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()
	other := uuid.New()

	mustUpload(t, svc, owner, "a.png", "aa")
	mustUpload(t, svc, owner, "b.png", "bbb")
	mustUpload(t, svc, other, "c.png", "cccc")

	list, err := svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, f := range list {
		require.Equal(t, owner, f.OwnerID)
	}
}

// Параллельные rename и move одного файла: блокировка по id сериализует
// мутации, путь в реестре и путь на диске не расходятся.
func TestConcurrentRenameMove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	f := mustUpload(t, svc, owner, "start.png", "data")

	const n = 8
	errs := make(chan error, 2*n)
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			name := "race" + string(rune('a'+i)) + ".png"
			_, err := svc.Rename(ctx, f.ID, owner, name)
			errs <- err
		}(i)
		go func(i int) {
			defer wg.Done()
			folder := "dir" + string(rune('a'+i))
			_, err := svc.Move(ctx, f.ID, owner, folder)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.Files.FileByID(ctx, f.ID)
	require.NoError(t, err)

	exists, err := svc.Store.Exists(ctx, got.StoragePath)
	require.NoError(t, err)
	require.True(t, exists)
}

// unreachableRepo имитирует недоступный реестр: каждое чтение — инфраструктурный сбой.
type unreachableRepo struct {
	domain.FilesRepo
	err error
}

func (r *unreachableRepo) FileByID(context.Context, domain.FileID) (domain.File, error) {
	return domain.File{}, r.err
}

// Отказ реестра — это не «записи нет»: наружу уходит ErrStorage, не ErrNotFound.
func TestRegistryFailureIsNotNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	owner := uuid.New()

	f := mustUpload(t, svc, owner, "doc.png", "data")

	svc.Files = &unreachableRepo{FilesRepo: svc.Files, err: errors.New("connection refused")}

	_, err := svc.AccessShared(ctx, f.ID, &owner, "")
	require.ErrorIs(t, err, domain.ErrStorage)
	require.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Rename(ctx, f.ID, owner, "new.png")
	require.ErrorIs(t, err, domain.ErrStorage)
	require.NotErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, f.ID, owner)
	require.ErrorIs(t, err, domain.ErrStorage)
	require.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestStorageName(t *testing.T) {
	a, err := storageName("report final.pdf")
	require.NoError(t, err)
	b, err := storageName("report final.pdf")
	require.NoError(t, err)

	// случайный префикс разводит одинаковые имена
	require.NotEqual(t, a, b)
	require.NotContains(t, a, "/")
	require.True(t, strings.HasSuffix(a, "-report%20final.pdf"))
}
