package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/srirampandi55/Cloudify/internal/config"
	"github.com/srirampandi55/Cloudify/internal/domain"
	"github.com/srirampandi55/Cloudify/internal/files"
	"github.com/srirampandi55/Cloudify/internal/transport/web/mw"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/auth"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/file"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/folder"
	"github.com/srirampandi55/Cloudify/internal/transport/web/v1/health"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, rep Repos, authDeps AuthDeps, store domain.FileStore, cache domain.Cache) *Server {
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	authLog := log.New(logger.Writer(), logger.Prefix()+"[auth] ", logger.Flags())
	filesLog := log.New(logger.Writer(), logger.Prefix()+"[files] ", logger.Flags())
	foldersLog := log.New(logger.Writer(), logger.Prefix()+"[folders] ", logger.Flags())

	folders := &files.Folders{Log: foldersLog, Repo: rep.Folders, Store: store}
	svc := files.NewService(filesLog, rep.Files, folders, store, cfg.AllowedMIMEList())

	healthHandler := &health.Handler{Log: healthLog, DB: rep.Users, Cache: cache, Storage: store}
	registerHandler := &auth.HandlerRegister{Log: authLog, Users: rep.Users, Hasher: authDeps.Hasher, AdminToken: cfg.AdminToken}
	loginHandler := &auth.HandlerLogin{Log: authLog, Users: rep.Users, Hasher: authDeps.Hasher, Tokens: authDeps.Tokens}
	logoutHandler := &auth.HandlerLogout{Log: authLog, Tokens: authDeps.Tokens, Blacklist: authDeps.Blacklist}
	fileHandler := &file.Handler{
		Log:     filesLog,
		Svc:     svc,
		Cache:   cache,
		BaseURL: cfg.ServerURL,
		ListTTL: 60,
	}
	folderHandler := &folder.Handler{Log: foldersLog, Folders: folders}

	mwAuth := mw.AuthDeps{Tokens: authDeps.Tokens, Blacklist: authDeps.Blacklist}

	srv := &http.Server{
		Addr: cfg.AppPort,
		Handler: newRouter(routerDeps{
			health:  healthHandler,
			reg:     registerHandler,
			login:   loginHandler,
			logout:  logoutHandler,
			files:   fileHandler,
			folders: folderHandler,
			auth:    mwAuth,
			maxBody: cfg.UploadMaxBytes,
		}, logger),
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
