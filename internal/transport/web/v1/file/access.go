package file

import (
	"net/http"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// AccessShared godoc
// @Summary     Access shared file
// @Description публичные — без авторизации; restricted — по токену
// @Description из ссылки или с Bearer гранта
// @Tags        files
// @Produce     json
// @Param       id       path  string true  "file id"
// @Param       token    query string false "share token"
// @Param       download query int    false "1 — stream content"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Success     200 {file}   []byte "when download"
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /api/files/access/{id} [get]
func (h *Handler) AccessShared(w http.ResponseWriter, r *http.Request) {
	const op = "files.access_shared"
	reqID := mw.RequestIDFromCtx(r.Context())

	// маршрут под OptionalAuth: аноним допустим
	var caller *domain.UserID
	if me, ok := mw.UserFromCtx(r.Context()); ok {
		caller = &me.ID
	}

	id, err := parseID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	token := v1.TokenFromRequest(r)

	if r.URL.Query().Get("download") == "1" {
		h.stream(w, r, id, caller, token)
		return
	}

	f, err := h.Svc.AccessShared(r.Context(), id, caller, token)
	if err != nil {
		logx.Error(h.Log, reqID, op, "denied", err, "file_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "file_id", f.ID, "access", f.Access)
	v1.WriteOKData(w, r, toOut(f))
}
