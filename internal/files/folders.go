package files

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

// Folders отвечает за дерево папок: валидация имён, канонические пути,
// создание физических директорий. Все пути строго под неймспейсом владельца.
type Folders struct {
	Log   *log.Logger
	Repo  domain.FoldersRepo
	Store domain.FileStore
}

// ResolvePath детерминированно склеивает неймспейс владельца и сегменты.
// Чистая функция: существование пути здесь не проверяется.
func (f *Folders) ResolvePath(owner domain.UserID, segments ...string) (string, error) {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, owner.String())
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if !domain.ValidPathSegment(s) {
			return "", fmt.Errorf("%w: bad path segment %q", domain.ErrBadParams, s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/"), nil
}

// Create создаёт папку владельца: сперва проверки коллизий в реестре и
// хранилище, затем физическая директория, затем запись в реестре.
func (f *Folders) Create(ctx context.Context, owner domain.UserID, name string) (domain.Folder, error) {
	path, err := f.ResolvePath(owner, name)
	if err != nil {
		return domain.Folder{}, err
	}

	if _, err := f.Repo.FolderByPath(ctx, owner, path); err == nil {
		return domain.Folder{}, fmt.Errorf("%w: folder %q", domain.ErrAlreadyExists, name)
	}
	exists, err := f.Store.Exists(ctx, path)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("%w: stat %q: %v", domain.ErrStorage, path, err)
	}
	if exists {
		return domain.Folder{}, fmt.Errorf("%w: folder %q", domain.ErrAlreadyExists, name)
	}

	if err := f.Store.MakeDir(ctx, path); err != nil {
		return domain.Folder{}, fmt.Errorf("%w: mkdir %q: %v", domain.ErrStorage, path, err)
	}

	folder, err := f.Repo.CreateFolder(ctx, domain.Folder{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    strings.TrimSpace(name),
		Path:    path,
	})
	if err != nil {
		// директория уже на диске; реестр догонит её при следующей попытке
		f.Log.Printf("create folder: registry write failed for %q: %v", path, err)
		return domain.Folder{}, err
	}
	return folder, nil
}

// Ensure возвращает папку по имени, создавая её при отсутствии
// (семантика move: целевая папка появляется на лету).
func (f *Folders) Ensure(ctx context.Context, owner domain.UserID, name string) (domain.Folder, error) {
	path, err := f.ResolvePath(owner, name)
	if err != nil {
		return domain.Folder{}, err
	}
	if folder, err := f.Repo.FolderByPath(ctx, owner, path); err == nil {
		return folder, nil
	}
	folder, err := f.Create(ctx, owner, name)
	if err == nil {
		return folder, nil
	}
	// гонка: кто-то создал между проверкой и вставкой
	if folder, lookupErr := f.Repo.FolderByPath(ctx, owner, path); lookupErr == nil {
		return folder, nil
	}
	return domain.Folder{}, err
}
