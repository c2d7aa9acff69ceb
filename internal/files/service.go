package files

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

// Service — оркестратор файловых операций: складывает Folders, реестр и
// физическое хранилище в атомарные (насколько возможно) последовательности.
//
// Порядок шагов фиксирован: физическая мутация раньше записи в реестр.
// Если реестр не догнал диск — возвращается ErrInconsistent, и диск
// считается истиной для пасса сверки.
type Service struct {
	Log     *log.Logger
	Files   domain.FilesRepo
	Folders *Folders
	Store   domain.FileStore

	// Allow-list MIME-типов загрузки (из конфига)
	AllowedMIME map[string]bool

	locks *lockTable
}

func NewService(logger *log.Logger, repo domain.FilesRepo, folders *Folders, store domain.FileStore, allowed []string) *Service {
	m := make(map[string]bool, len(allowed))
	for _, t := range allowed {
		m[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &Service{
		Log:         logger,
		Files:       repo,
		Folders:     folders,
		Store:       store,
		AllowedMIME: m,
		locks:       newLockTable(),
	}
}

type UploadInput struct {
	Owner    domain.UserID
	FolderID *domain.FolderID // nil — корень неймспейса
	Name     string           // отображаемое имя из запроса
	MIME     string
	Body     io.Reader
}

// Upload валидирует тип, пишет байты под сгенерированным именем и только
// после успешной физической записи создаёт запись реестра (access=private).
// Падение записи на диск не оставляет метаданных-сирот.
func (s *Service) Upload(ctx context.Context, in UploadInput) (domain.File, error) {
	mime := strings.ToLower(strings.TrimSpace(in.MIME))
	if !s.AllowedMIME[mime] {
		return domain.File{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, in.MIME)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.File{}, fmt.Errorf("%w: empty filename", domain.ErrBadParams)
	}

	dir := in.Owner.String()
	if in.FolderID != nil {
		folder, err := s.Folders.Repo.FolderByID(ctx, *in.FolderID)
		if err != nil || folder.OwnerID != in.Owner {
			return domain.File{}, fmt.Errorf("%w: folder %s", domain.ErrNotFound, in.FolderID)
		}
		dir = folder.Path
	}

	gen, err := storageName(name)
	if err != nil {
		return domain.File{}, err
	}
	path := dir + "/" + gen

	size, err := s.Store.Write(ctx, path, in.Body)
	if err != nil {
		return domain.File{}, fmt.Errorf("%w: write %q: %v", domain.ErrStorage, path, err)
	}

	rec, err := s.Files.CreateFile(ctx, domain.File{
		ID:          uuid.New(),
		OwnerID:     in.Owner,
		Name:        name,
		MIME:        mime,
		SizeBytes:   size,
		FolderID:    in.FolderID,
		Access:      domain.AccessPrivate,
		StoragePath: path,
	})
	if err != nil {
		// реестр не принял запись — подчищаем байты, чтобы не плодить сирот
		if rmErr := s.Store.Remove(ctx, path); rmErr != nil {
			s.Log.Printf("upload: orphan cleanup failed for %q: %v", path, rmErr)
		}
		return domain.File{}, err
	}
	return rec, nil
}

// Rename меняет отображаемое имя и путь на диске. Физический rename идёт
// первым; если после него реестр не обновился — ErrInconsistent.
func (s *Service) Rename(ctx context.Context, id domain.FileID, caller domain.UserID, newName string) (domain.File, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.File{}, fmt.Errorf("%w: empty filename", domain.ErrBadParams)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	f, err := s.ownedFile(ctx, id, caller)
	if err != nil {
		return domain.File{}, err
	}

	if err := s.requireOnDisk(ctx, f.StoragePath); err != nil {
		return domain.File{}, err
	}

	gen, err := storageName(newName)
	if err != nil {
		return domain.File{}, err
	}
	newPath := path.Dir(f.StoragePath) + "/" + gen

	if err := s.Store.Rename(ctx, f.StoragePath, newPath); err != nil {
		return domain.File{}, fmt.Errorf("%w: rename %q -> %q: %v", domain.ErrStorage, f.StoragePath, newPath, err)
	}

	out, err := s.Files.UpdateFile(ctx, id, domain.FileUpdate{
		Name:        &newName,
		StoragePath: &newPath,
	})
	if err != nil {
		s.Log.Printf("rename: registry diverged from disk, file=%s disk=%q: %v", id, newPath, err)
		return domain.File{}, fmt.Errorf("%w: file %s: registry update after rename: %v", domain.ErrInconsistent, id, err)
	}
	return out, nil
}

// Move переносит файл в папку по имени, создавая её при отсутствии.
// Контракт порядка и отказов тот же, что у Rename.
func (s *Service) Move(ctx context.Context, id domain.FileID, caller domain.UserID, folderName string) (domain.File, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	f, err := s.ownedFile(ctx, id, caller)
	if err != nil {
		return domain.File{}, err
	}

	folder, err := s.Folders.Ensure(ctx, caller, folderName)
	if err != nil {
		return domain.File{}, err
	}

	if err := s.requireOnDisk(ctx, f.StoragePath); err != nil {
		return domain.File{}, err
	}

	newPath := folder.Path + "/" + path.Base(f.StoragePath)
	if newPath == f.StoragePath {
		return f, nil
	}

	if err := s.Store.Rename(ctx, f.StoragePath, newPath); err != nil {
		return domain.File{}, fmt.Errorf("%w: move %q -> %q: %v", domain.ErrStorage, f.StoragePath, newPath, err)
	}

	out, err := s.Files.UpdateFile(ctx, id, domain.FileUpdate{
		StoragePath: &newPath,
		FolderID:    &folder.ID,
	})
	if err != nil {
		s.Log.Printf("move: registry diverged from disk, file=%s disk=%q: %v", id, newPath, err)
		return domain.File{}, fmt.Errorf("%w: file %s: registry update after move: %v", domain.ErrInconsistent, id, err)
	}
	return out, nil
}

// Delete удаляет сперва байты (отсутствие — не ошибка), затем запись реестра.
// Повторный вызов по тому же id даёт ErrNotFound, ничего больше.
func (s *Service) Delete(ctx context.Context, id domain.FileID, caller domain.UserID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	f, err := s.ownedFile(ctx, id, caller)
	if err != nil {
		return err
	}

	if err := s.Store.Remove(ctx, f.StoragePath); err != nil {
		return fmt.Errorf("%w: remove %q: %v", domain.ErrStorage, f.StoragePath, err)
	}
	return s.Files.DeleteFile(ctx, id)
}

// Share переводит файл в новый режим доступа. Только владелец.
// На входе в restricted набор грантов заменяется целиком и выпускается
// свежий токен; на выходе из restricted токен гасится (политика: токен
// непуст только пока файл restricted).
func (s *Service) Share(ctx context.Context, id domain.FileID, caller domain.UserID, access domain.AccessType, grantees []domain.UserID) (domain.File, error) {
	if !domain.ValidAccessType(string(access)) {
		return domain.File{}, fmt.Errorf("%w: access type %q", domain.ErrBadParams, access)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	if _, err := s.ownedFile(ctx, id, caller); err != nil {
		return domain.File{}, err
	}

	upd := domain.FileUpdate{Access: &access}
	if access == domain.AccessRestricted {
		token, err := NewShareToken()
		if err != nil {
			return domain.File{}, err
		}
		upd.ShareToken = &token
		if grantees == nil {
			grantees = []domain.UserID{}
		}
		upd.SharedWith = grantees
	} else {
		empty := ""
		upd.ShareToken = &empty
	}

	return s.Files.UpdateFile(ctx, id, upd)
}

// AccessShared возвращает запись, если политика доступа пропускает вызов.
// caller == nil — аноним; token — опциональный share-токен.
func (s *Service) AccessShared(ctx context.Context, id domain.FileID, caller *domain.UserID, token string) (domain.File, error) {
	f, err := s.fileByID(ctx, id)
	if err != nil {
		return domain.File{}, err
	}
	if err := CheckAccess(&f, caller, token); err != nil {
		return domain.File{}, err
	}
	return f, nil
}

// Open отдаёт запись и поток контента после той же проверки доступа.
func (s *Service) Open(ctx context.Context, id domain.FileID, caller *domain.UserID, token string) (domain.File, io.ReadSeekCloser, error) {
	f, err := s.AccessShared(ctx, id, caller, token)
	if err != nil {
		return domain.File{}, nil, err
	}
	rc, _, err := s.Store.Open(ctx, f.StoragePath)
	if err != nil {
		return domain.File{}, nil, fmt.Errorf("%w: open %q: %v", domain.ErrNotFoundOnDisk, f.StoragePath, err)
	}
	return f, rc, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.File, error) {
	return s.Files.FilesByOwner(ctx, owner)
}

// fileByID читает запись реестра, разводя «записи нет» и отказ самого
// реестра: сбой инфраструктуры не должен выглядеть как 404.
func (s *Service) fileByID(ctx context.Context, id domain.FileID) (domain.File, error) {
	f, err := s.Files.FileByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.File{}, domain.ErrNotFound
		}
		return domain.File{}, fmt.Errorf("%w: registry read %s: %v", domain.ErrStorage, id, err)
	}
	return f, nil
}

// ownedFile достаёт запись и проверяет владение.
func (s *Service) ownedFile(ctx context.Context, id domain.FileID, caller domain.UserID) (domain.File, error) {
	f, err := s.fileByID(ctx, id)
	if err != nil {
		return domain.File{}, err
	}
	if f.OwnerID != caller {
		return domain.File{}, domain.ErrForbidden
	}
	return f, nil
}

func (s *Service) requireOnDisk(ctx context.Context, path string) error {
	exists, err := s.Store.Exists(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: stat %q: %v", domain.ErrStorage, path, err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", domain.ErrNotFoundOnDisk, path)
	}
	return nil
}

// storageName собирает имя на диске: случайный префикс + очищенное
// отображаемое имя. Случайность защищает от коллизий одинаковых имён.
func storageName(display string) (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("storage name: %w", err)
	}
	return hex.EncodeToString(b) + "-" + sanitizeName(display), nil
}

func sanitizeName(name string) string {
	u := url.PathEscape(name)
	return strings.ReplaceAll(u, "%2F", "_")
}

