package s3

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// Storage — физическое хранилище поверх S3/MinIO. Логический путь файла
// используется как ключ объекта без преобразований, так что раскладка
// бакета повторяет дерево "{owner}/{folder?}/{name}".
type Storage struct {
	cl     *minio.Client
	bucket string
	logger *log.Logger
}

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Storage, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &Storage{cl: cl, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *Storage) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	info, err := s.cl.PutObject(ctx, s.bucket, path, r, -1, minio.PutObjectOptions{})
	if err != nil {
		s.logger.Printf("put %q failed: %v", path, err)
		return 0, err
	}
	s.logger.Printf("put %q (%d bytes)", path, info.Size)
	return info.Size, nil
}

// Open возвращает поток объекта; *minio.Object умеет Seek, так что
// транспорт может отдавать Range поверх него.
func (s *Storage) Open(ctx context.Context, path string) (io.ReadSeekCloser, int64, error) {
	info, err := s.cl.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	obj, err := s.cl.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	return obj, info.Size, nil
}

func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.cl.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Rename в S3 — это copy + remove: объекты неизменяемы.
func (s *Storage) Rename(ctx context.Context, oldPath, newPath string) error {
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: oldPath}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: newPath}
	if _, err := s.cl.CopyObject(ctx, dst, src); err != nil {
		s.logger.Printf("rename %q -> %q: copy failed: %v", oldPath, newPath, err)
		return err
	}
	if err := s.cl.RemoveObject(ctx, s.bucket, oldPath, minio.RemoveObjectOptions{}); err != nil {
		// копия уже на месте; старый ключ подберёт пасс сверки
		s.logger.Printf("rename %q -> %q: source cleanup failed: %v", oldPath, newPath, err)
		return err
	}
	s.logger.Printf("rename %q -> %q", oldPath, newPath)
	return nil
}

// MakeDir — no-op: у объектного хранилища нет директорий, префиксы
// появляются вместе с объектами.
func (s *Storage) MakeDir(_ context.Context, _ string) error { return nil }

func (s *Storage) Remove(ctx context.Context, path string) error {
	// RemoveObject по отсутствующему ключу в S3 успешен — идемпотентность бесплатно
	if err := s.cl.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Printf("remove %q failed: %v", path, err)
		return err
	}
	s.logger.Printf("remove %q", path)
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ok, err := s.cl.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %q not found", s.bucket)
	}
	return nil
}
