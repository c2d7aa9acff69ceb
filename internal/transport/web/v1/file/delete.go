package file

import (
	"net/http"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// Delete godoc
// @Summary     Delete file (owner only)
// @Tags        files
// @Produce     json
// @Param       id path string true "file id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/files/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "files.delete"
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

	if err := h.Svc.Delete(r.Context(), id, me.ID); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "file_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	h.bumpListVer(r.Context(), me.ID)

	logx.Info(h.Log, reqID, op, "ok", "file_id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}
