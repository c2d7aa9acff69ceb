package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/srirampandi55/Cloudify/internal/app"
)

// @title           Cloudify API
// @version         1.0
// @description     Файловое хранилище: папки, загрузка, шаринг.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
