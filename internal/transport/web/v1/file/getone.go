package file

import (
	"net/http"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// GetOne godoc
// @Summary     Get file metadata or content
// @Description ?download=1 — отдать содержимое (с поддержкой Range)
// @Tags        files
// @Produce     json
// @Param       id       path  string true  "file id"
// @Param       download query int    false "1 — stream content"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Success     200 {file}   []byte "when download"
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/files/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "files.get_one"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := parseID(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad id", err, "raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if r.URL.Query().Get("download") == "1" {
		h.stream(w, r, id, &me.ID, v1.TokenFromRequest(r))
		return
	}

	// метаданные всегда из реестра: проверка доступа идёт по свежей
	// записи (токен и гранты в кэшированный ответ не попадают)
	f, err := h.Svc.AccessShared(r.Context(), id, &me.ID, v1.TokenFromRequest(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "access denied", err, "file_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	w.Header().Set("Last-Modified", v1.HTTPTime(f.UpdatedAt))
	w.Header().Set("Cache-Control", "private, max-age=60")

	logx.Info(h.Log, reqID, op, "ok", "file_id", f.ID)
	v1.WriteOKData(w, r, toOut(f))
}

// stream отдаёт байты через http.ServeContent: Range, If-Modified-Since
// и HEAD обрабатываются стандартной машинерией.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, id domain.FileID, caller *domain.UserID, token string) {
	const op = "files.download"
	reqID := mw.RequestIDFromCtx(r.Context())

	f, rc, err := h.Svc.Open(r.Context(), id, caller, token)
	if err != nil {
		logx.Error(h.Log, reqID, op, "open failed", err, "file_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", f.MIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)

	logx.Info(h.Log, reqID, op, "ok", "file_id", f.ID, "size", f.SizeBytes)
	http.ServeContent(w, r, f.Name, f.UpdatedAt, rc)
}
