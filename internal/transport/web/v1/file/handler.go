package file

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/files"
)

type Handler struct {
	Log *log.Logger
	Svc *files.Service

	Cache   domain.Cache
	BaseURL string // внешний адрес сервиса, для share-ссылок

	ListTTL int // секунд
}

// fileOut — представление записи в ответах API.
type fileOut struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Mime       string   `json:"mime"`
	SizeBytes  int64    `json:"size_bytes"`
	FolderID   string   `json:"folder_id,omitempty"`
	Access     string   `json:"access"`
	SharedWith []string `json:"shared_with,omitempty"`
	Created    string   `json:"created"`
	Updated    string   `json:"updated"`
}

func toOut(f domain.File) fileOut {
	out := fileOut{
		ID:        f.ID.String(),
		Name:      f.Name,
		Mime:      f.MIME,
		SizeBytes: f.SizeBytes,
		Access:    string(f.Access),
		Created:   f.CreatedAt.Format("2006-01-02 15:04:05"),
		Updated:   f.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if f.FolderID != nil {
		out.FolderID = f.FolderID.String()
	}
	for _, u := range f.SharedWith {
		out.SharedWith = append(out.SharedWith, u.String())
	}
	return out
}

func parseID(r *http.Request) (domain.FileID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// bumpListVer инвалидирует кэш списка владельца через счётчик версии.
func (h *Handler) bumpListVer(ctx context.Context, owner domain.UserID) {
	if _, err := h.Cache.Incr(ctx, domain.CacheKeyListVer(owner)); err != nil {
		h.Log.Printf("list version bump failed for %s: %v", owner, err)
	}
}
