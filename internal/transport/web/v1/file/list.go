package file

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// List godoc
// @Summary     List own files
// @Tags        files
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "files.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	// версионированный ключ: мутации двигают версию, старые записи
	// просто протухают по TTL
	ver := h.listVer(r)
	ckey := domain.CacheKeyList(me.ID, ver)
	if b, err := h.Cache.Get(r.Context(), ckey); err != nil {
		logx.Error(h.Log, reqID, op, "cache get list", err)
	} else if len(b) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "private, max-age=60")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	recs, err := h.Svc.ListByOwner(r.Context(), me.ID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	out := struct {
		Files []fileOut `json:"files"`
	}{Files: make([]fileOut, 0, len(recs))}
	for _, f := range recs {
		out.Files = append(out.Files, toOut(f))
	}

	env := domain.OkData(out)
	if buf, err := json.Marshal(env); err == nil {
		_ = h.Cache.Set(r.Context(), ckey, buf, h.ListTTL)
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(recs))
	v1.WriteEnvelope(w, r, http.StatusOK, env)
}

// listVer читает текущую версию списка; при недоступном кэше — нулевая
// версия (промах, идём в реестр).
func (h *Handler) listVer(r *http.Request) int64 {
	me, _ := mw.UserFromCtx(r.Context())
	b, err := h.Cache.Get(r.Context(), domain.CacheKeyListVer(me.ID))
	if err != nil || len(b) == 0 {
		return 0
	}
	ver, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return ver
}
