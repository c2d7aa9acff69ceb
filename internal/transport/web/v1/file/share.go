package file

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// Share godoc
// @Summary     Change file access mode (owner only)
// @Description access: private|public|restricted; для restricted набор
// @Description грантов заменяется целиком и выпускается новая ссылка
// @Tags        files
// @Accept      json
// @Produce     json
// @Param       id   path string true "file id"
// @Param       body body object{access=string,shared_with=[]string} true "access mode"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/files/{id}/share [post]
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	const op = "files.share"
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
		Access     string   `json:"access"`
		SharedWith []string `json:"shared_with"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logx.Error(h.Log, reqID, op, "bad body", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var grantees []domain.UserID
	for _, s := range in.SharedWith {
		uid, err := uuid.Parse(s)
		if err != nil {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		grantees = append(grantees, uid)
	}

	f, err := h.Svc.Share(r.Context(), id, me.ID, domain.AccessType(in.Access), grantees)
	if err != nil {
		logx.Error(h.Log, reqID, op, "share failed", err, "file_id", id, "access", in.Access)
		v1.WriteDomainError(w, r, err)
		return
	}

	h.bumpListVer(r.Context(), me.ID)

	out := struct {
		fileOut
		Link string `json:"link,omitempty"`
	}{fileOut: toOut(f)}
	if f.Access == domain.AccessRestricted && f.ShareToken != "" {
		out.Link = h.BaseURL + "/api/files/access/" + f.ID.String() + "?token=" + f.ShareToken
	}

	logx.Info(h.Log, reqID, op, "ok", "file_id", id, "access", f.Access)
	v1.WriteOKData(w, r, out)
}
