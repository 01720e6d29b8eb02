package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carepath/fieldsched/internal/api"
	"github.com/carepath/fieldsched/internal/bootstrap"
	"github.com/carepath/fieldsched/internal/config"
	"github.com/carepath/fieldsched/internal/logging"
	"github.com/carepath/fieldsched/internal/service"
	"github.com/carepath/fieldsched/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.Env)

	scheduleStore := store.NewScheduleStoreFromEnv(cfg, log)
	catalogStore := store.NewCatalogStore()
	bootstrap.LoadCatalogFromEnv(catalogStore, log)

	solver := service.NewSolver(log)
	handler := api.NewScheduleHandler(solver, catalogStore, scheduleStore, log)
	e := api.NewRouter(handler)

	go func() {
		log.Info().Str("addr", cfg.AppPort).Msg("starting server")
		if err := e.Start(":" + cfg.AppPort); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
}
