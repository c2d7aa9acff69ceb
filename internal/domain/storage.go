package domain

import (
	"context"
	"io"
)

// Физическое хранилище байтов (локальный диск или S3/MinIO).
// Ключ — логический путь "{owner_id}/{folder?}/{generated-name}";
// как он ложится на носитель, решает реализация.
type FileStore interface {
	// Write пишет поток целиком и возвращает записанный размер.
	Write(ctx context.Context, path string, r io.Reader) (int64, error)
	// Open открывает объект на чтение. Seeker нужен транспорту для Range.
	Open(ctx context.Context, path string) (rc io.ReadSeekCloser, size int64, err error)
	Exists(ctx context.Context, path string) (bool, error)
	Rename(ctx context.Context, oldPath, newPath string) error
	// MakeDir создаёт узел-директорию (для плоских хранилищ — no-op).
	MakeDir(ctx context.Context, path string) error
	// Remove удаляет объект; отсутствие объекта — не ошибка (идемпотентность).
	Remove(ctx context.Context, path string) error
	Ping(context.Context) error
}
