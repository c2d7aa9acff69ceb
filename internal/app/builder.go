package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/srirampandi55/Cloudify/internal/auth/blacklist"
	"github.com/srirampandi55/Cloudify/internal/auth/password"
	"github.com/srirampandi55/Cloudify/internal/auth/token"
	"github.com/srirampandi55/Cloudify/internal/config"
	"github.com/srirampandi55/Cloudify/internal/domain"
	redisx "github.com/srirampandi55/Cloudify/internal/infra/cache/redis"
	"github.com/srirampandi55/Cloudify/internal/infra/database/postgres"
	localstorage "github.com/srirampandi55/Cloudify/internal/infra/storage/local"
	s3storage "github.com/srirampandi55/Cloudify/internal/infra/storage/s3"
	"github.com/srirampandi55/Cloudify/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	store  domain.FileStore
	cache  domain.Cache
	repo   *postgres.PGRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	storeLog := log.New(base.Writer(), base.Prefix()+"[storage] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Printf("init storage backend %q", cfg.StorageBackend)
	var store domain.FileStore
	switch cfg.StorageBackend {
	case "s3":
		s3cfg := s3storage.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			PathStyle: cfg.S3PathStyle,
		}
		store, err = s3storage.New(ctx, s3cfg, storeLog)
	default:
		store, err = localstorage.New(cfg.StorageRoot, storeLog)
	}
	if err != nil {
		return nil, fmt.Errorf("failed init storage: %w", err)
	}

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	// Auth primitives
	hasher := password.NewDefault()
	tm := token.New(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthTokenTTL)
	bl := blacklist.NewStore(rc, "jti:")

	base.Println("init Server")
	rep := web.Repos{Users: pgRepo, Files: pgRepo, Folders: pgRepo}
	authDeps := web.AuthDeps{Hasher: hasher, Tokens: tm, Blacklist: bl}
	server := web.New(serverLog, cfg, rep, authDeps, store, rc)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		store:  store,
		repo:   pgRepo,
		cache:  rc}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
