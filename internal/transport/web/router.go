package web

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/srirampandi55/Cloudify/internal/docs"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/auth"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/file"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/folder"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/health"
)

type routerDeps struct {
	health  *health.Handler
	reg     *auth.HandlerRegister
	login   *auth.HandlerLogin
	logout  *auth.HandlerLogout
	files   *file.Handler
	folders *folder.Handler
	auth    mw.AuthDeps
	maxBody int64
}

func newRouter(d routerDeps, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /v1/healthz", d.health.Liveness)
	mux.HandleFunc("GET /v1/readyz", d.health.Readiness)

	// auth
	mux.HandleFunc("POST /api/register", d.reg.Register)
	mux.HandleFunc("POST /api/auth", d.login.Login)
	mux.HandleFunc("DELETE /api/auth/{token}", d.logout.Logout)

	// файлы (все — под Bearer)
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return mw.RequireAuth(d.auth, h)
	}
	mux.Handle("POST /api/files", requireAuth(limitBody(d.maxBody, d.files.Upload)))
	mux.Handle("GET /api/files", requireAuth(d.files.List))
	mux.Handle("GET /api/files/{id}", requireAuth(d.files.GetOne))
	mux.Handle("PUT /api/files/{id}/rename", requireAuth(d.files.Rename))
	mux.Handle("PUT /api/files/{id}/move", requireAuth(d.files.Move))
	mux.Handle("DELETE /api/files/{id}", requireAuth(d.files.Delete))
	mux.Handle("POST /api/files/{id}/share", requireAuth(d.files.Share))

	// доступ по share-ссылке: аноним проходит, Bearer — опционален
	mux.Handle("GET /api/files/access/{id}", mw.OptionalAuth(d.auth, http.HandlerFunc(d.files.AccessShared)))

	// папки
	mux.Handle("POST /api/folders", requireAuth(d.folders.Create))
	mux.Handle("GET /api/folders", requireAuth(d.folders.List))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
