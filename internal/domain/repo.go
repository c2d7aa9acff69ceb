package domain

import (
	"context"
)

// Частичное обновление записи файла. nil-поле — «не трогать».
// Применяется реестром как одна логическая запись: читатели не видят
// промежуточных состояний.
type FileUpdate struct {
	Name        *string
	StoragePath *string
	FolderID    *FolderID
	Access      *AccessType
	ShareToken  *string
	// Полная замена набора грантов (не merge). Применяется только
	// вместе с Access == restricted.
	SharedWith []UserID
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, login string, passHash []byte) (User, error)
	UserByLogin(ctx context.Context, login string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
}

// Реестр метаданных файлов. Байты файлов здесь не живут — только каталог.
type FilesRepo interface {
	CreateFile(ctx context.Context, f File) (File, error)
	FileByID(ctx context.Context, id FileID) (File, error)
	// Набор без гарантий порядка; сортировка — забота транспорта.
	FilesByOwner(ctx context.Context, owner UserID) ([]File, error)
	UpdateFile(ctx context.Context, id FileID, upd FileUpdate) (File, error)
	DeleteFile(ctx context.Context, id FileID) error
}

type FoldersRepo interface {
	CreateFolder(ctx context.Context, f Folder) (Folder, error)
	FolderByID(ctx context.Context, id FolderID) (Folder, error)
	FolderByPath(ctx context.Context, owner UserID, path string) (Folder, error)
	FoldersByOwner(ctx context.Context, owner UserID) ([]Folder, error)
}
