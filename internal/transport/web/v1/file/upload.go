package file

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/files"
	"github.com/srirampandi55/Cloudify/internal/transport/web/logx"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	v1 "github.com/srirampandi55/Cloudify/internal/transport/web/v1"
)

// Upload godoc
// @Summary     Upload file
// @Description multipart: file (required), folder_id (optional)
// @Tags        files
// @Accept      multipart/form-data
// @Produce     json
// @Param       file      formData file   true  "file content"
// @Param       folder_id formData string false "target folder id"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Security    BearerAuth
// @Router      /api/files [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "files.upload"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logx.Error(h.Log, reqID, op, "parse form", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	fh, hdr, err := r.FormFile("file")
	if err != nil {
		logx.Error(h.Log, reqID, op, "missing file part", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	defer fh.Close()

	in := files.UploadInput{
		Owner: me.ID,
		Name:  hdr.Filename,
		MIME:  hdr.Header.Get("Content-Type"),
		Body:  fh,
	}
	if s := r.FormValue("folder_id"); s != "" {
		fid, err := uuid.Parse(s)
		if err != nil {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		in.FolderID = &fid
	}

	rec, err := h.Svc.Upload(r.Context(), in)
	if err != nil {
		logx.Error(h.Log, reqID, op, "upload failed", err, "name", hdr.Filename)
		v1.WriteDomainError(w, r, err)
		return
	}

	h.bumpListVer(r.Context(), me.ID)

	logx.Info(h.Log, reqID, op, "ok", "file_id", rec.ID, "size", rec.SizeBytes)
	v1.WriteOKData(w, r, toOut(rec))
}
