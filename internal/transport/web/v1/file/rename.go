package file

import (
	"encoding/json"
	"net/http"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// Rename godoc
// @Summary     Rename file (owner only)
// @Tags        files
// @Accept      json
// @Produce     json
// @Param       id   path string true "file id"
// @Param       body body object{name=string} true "new display name"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/files/{id}/rename [put]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	const op = "files.rename"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	id, err := parseID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
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

	f, err := h.Svc.Rename(r.Context(), id, me.ID, in.Name)
	if err != nil {
		logx.Error(h.Log, reqID, op, "rename failed", err, "file_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	h.bumpListVer(r.Context(), me.ID)

	logx.Info(h.Log, reqID, op, "ok", "file_id", id, "name", f.Name)
	v1.WriteOKData(w, r, toOut(f))
}
