package main

import (
	"os"

	"github.com/hibiken/asynq"

	"github.com/carepath/fieldsched/internal/bootstrap"
	"github.com/carepath/fieldsched/internal/config"
	"github.com/carepath/fieldsched/internal/job"
	"github.com/carepath/fieldsched/internal/logging"
	"github.com/carepath/fieldsched/internal/notify"
	"github.com/carepath/fieldsched/internal/service"
	"github.com/carepath/fieldsched/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.Env)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	solver := service.NewSolver(log)
	catalogStore := store.NewCatalogStore()
	bootstrap.LoadCatalogFromEnv(catalogStore, log)
	scheduleStore := store.NewScheduleStoreFromEnv(cfg, log)

	var notifier *notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewNotifier(notify.SMTPConfig{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
		})
	}

	handler := job.NewHandler(solver, catalogStore, scheduleStore, notifier, log)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 4},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(job.TypeSolve, handler.ProcessTask)

	log.Info().Str("redis_addr", redisAddr).Msg("starting solve worker")
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("worker server failed")
	}
}
