package folder

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/files"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

type Handler struct {
	Log     *log.Logger
	Folders *files.Folders
}

type folderOut struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
}

func toOut(f domain.Folder) folderOut {
	return folderOut{
		ID:      f.ID.String(),
		Name:    f.Name,
		Created: f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Create godoc
// @Summary     Create folder
// @Tags        folders
// @Accept      json
// @Produce     json
// @Param       body body object{name=string} true "folder name"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/folders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "folders.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logx.Error(h.Log, reqID, op, "bad body", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	f, err := h.Folders.Create(r.Context(), me.ID, in.Name)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "name", in.Name)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "folder_id", f.ID, "name", f.Name)
	v1.WriteOKData(w, r, toOut(f))
}

// List godoc
// @Summary     List own folders
// @Tags        folders
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/folders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "folders.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	recs, err := h.Folders.Repo.FoldersByOwner(r.Context(), me.ID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	out := struct {
		Folders []folderOut `json:"folders"`
	}{Folders: make([]folderOut, 0, len(recs))}
	for _, f := range recs {
		out.Folders = append(out.Folders, toOut(f))
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(recs))
	v1.WriteOKData(w, r, out)
}
