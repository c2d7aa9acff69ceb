package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

// Repo — реестр в памяти. Реализует те же контракты, что и postgres,
// для локальной разработки и тестов. Каждая мутация — одна критическая
// секция: частично применённые обновления снаружи не видны.
type Repo struct {
	mu      sync.RWMutex
	users   map[domain.UserID]domain.User
	logins  map[string]domain.UserID
	files   map[domain.FileID]domain.File
	folders map[domain.FolderID]domain.Folder
}

func NewRepo() *Repo {
	return &Repo{
		users:   make(map[domain.UserID]domain.User),
		logins:  make(map[string]domain.UserID),
		files:   make(map[domain.FileID]domain.File),
		folders: make(map[domain.FolderID]domain.Folder),
	}
}

func (r *Repo) Close() {}

func (r *Repo) Ping(context.Context) error { return nil }

// ---- users ----

func (r *Repo) CreateUser(_ context.Context, login string, passHash []byte) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logins[login]; ok {
		return domain.User{}, domain.ErrAlreadyExists
	}
	u := domain.User{
		ID:        uuid.New(),
		Login:     login,
		PassHash:  passHash,
		CreatedAt: time.Now().UTC(),
	}
	r.users[u.ID] = u
	r.logins[login] = u.ID
	return u, nil
}

func (r *Repo) UserByLogin(_ context.Context, login string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.logins[login]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return r.users[id], nil
}

func (r *Repo) UserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// ---- files ----

func (r *Repo) CreateFile(_ context.Context, f domain.File) (domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[f.ID]; ok {
		return domain.File{}, domain.ErrAlreadyExists
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	r.files[f.ID] = f
	return cloneFile(f), nil
}

func (r *Repo) FileByID(_ context.Context, id domain.FileID) (domain.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return domain.File{}, domain.ErrNotFound
	}
	return cloneFile(f), nil
}

func (r *Repo) FilesByOwner(_ context.Context, owner domain.UserID) ([]domain.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.File
	for _, f := range r.files {
		if f.OwnerID == owner {
			out = append(out, cloneFile(f))
		}
	}
	return out, nil
}

func (r *Repo) UpdateFile(_ context.Context, id domain.FileID, upd domain.FileUpdate) (domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return domain.File{}, domain.ErrNotFound
	}
	if upd.Name != nil {
		f.Name = *upd.Name
	}
	if upd.StoragePath != nil {
		f.StoragePath = *upd.StoragePath
	}
	if upd.FolderID != nil {
		fid := *upd.FolderID
		f.FolderID = &fid
	}
	if upd.Access != nil {
		f.Access = *upd.Access
		f.SharedWith = append([]domain.UserID(nil), upd.SharedWith...)
	}
	if upd.ShareToken != nil {
		f.ShareToken = *upd.ShareToken
	}
	f.UpdatedAt = time.Now().UTC()
	r.files[id] = f
	return cloneFile(f), nil
}

func (r *Repo) DeleteFile(_ context.Context, id domain.FileID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

// ---- folders ----

func (r *Repo) CreateFolder(_ context.Context, f domain.Folder) (domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.folders {
		if existing.OwnerID == f.OwnerID && existing.Path == f.Path {
			return domain.Folder{}, domain.ErrAlreadyExists
		}
	}
	f.CreatedAt = time.Now().UTC()
	r.folders[f.ID] = f
	return f, nil
}

func (r *Repo) FolderByID(_ context.Context, id domain.FolderID) (domain.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.folders[id]
	if !ok {
		return domain.Folder{}, domain.ErrNotFound
	}
	return f, nil
}

func (r *Repo) FolderByPath(_ context.Context, owner domain.UserID, path string) (domain.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.folders {
		if f.OwnerID == owner && f.Path == path {
			return f, nil
		}
	}
	return domain.Folder{}, domain.ErrNotFound
}

func (r *Repo) FoldersByOwner(_ context.Context, owner domain.UserID) ([]domain.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Folder
	for _, f := range r.folders {
		if f.OwnerID == owner {
			out = append(out, f)
		}
	}
	return out, nil
}

// cloneFile защищает внутреннее состояние от мутаций через срезы.
func cloneFile(f domain.File) domain.File {
	if f.SharedWith != nil {
		f.SharedWith = append([]domain.UserID(nil), f.SharedWith...)
	}
	if f.FolderID != nil {
		fid := *f.FolderID
		f.FolderID = &fid
	}
	return f
}
