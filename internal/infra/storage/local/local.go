package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Storage — физическое хранилище на локальном диске. Логические пути
// ("{owner}/{folder?}/{name}") ложатся под корневую директорию из конфига;
// никакого глобального состояния, корень задаётся при сборке.
type Storage struct {
	root   string
	logger *log.Logger
}

func New(root string, logger *log.Logger) (*Storage, error) {
	if root == "" {
		return nil, errors.New("local storage: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("local storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: create root: %w", err)
	}
	logger.Printf("root %s", abs)
	return &Storage{root: abs, logger: logger}, nil
}

// abs переводит логический путь в абсолютный и следит, чтобы результат
// не выпрыгнул из-под корня (вторая линия обороны после валидации имён).
func (s *Storage) abs(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(p))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("local storage: path %q escapes root", p)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *Storage) Write(_ context.Context, p string, r io.Reader) (int64, error) {
	dst, err := s.abs(p)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst) // не оставляем битый объект
		return 0, err
	}
	s.logger.Printf("write %q (%d bytes)", p, n)
	return n, nil
}

func (s *Storage) Open(_ context.Context, p string) (io.ReadSeekCloser, int64, error) {
	src, err := s.abs(p)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, st.Size(), nil
}

func (s *Storage) Exists(_ context.Context, p string) (bool, error) {
	abs, err := s.abs(p)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Storage) Rename(_ context.Context, oldPath, newPath string) error {
	src, err := s.abs(oldPath)
	if err != nil {
		return err
	}
	dst, err := s.abs(newPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		s.logger.Printf("rename %q -> %q failed: %v", oldPath, newPath, err)
		return err
	}
	s.logger.Printf("rename %q -> %q", oldPath, newPath)
	return nil
}

func (s *Storage) MakeDir(_ context.Context, p string) error {
	abs, err := s.abs(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(abs, 0o755)
}

// Remove удаляет объект; отсутствие — успех, чтобы delete оставался
// идемпотентным и его ретраи были безопасны.
func (s *Storage) Remove(_ context.Context, p string) error {
	abs, err := s.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Printf("remove %q: already absent", p)
			return nil
		}
		return err
	}
	s.logger.Printf("remove %q", p)
	return nil
}

func (s *Storage) Ping(_ context.Context) error {
	_, err := os.Stat(s.root)
	return err
}
