package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinhngx/backend-foodee/internal/common"
	"github.com/vinhngx/backend-foodee/internal/config"
	"github.com/vinhngx/backend-foodee/internal/notify"
	"github.com/vinhngx/backend-foodee/internal/obs"
)

func main() {
	cfg := config.MustLoad()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	queueOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	var sender common.EmailSender = common.NopEmailSender{}
	if cfg.NotifyEmailEnabled {
		sender = notify.LogEmailSender{Log: logger}
	}

	worker := &notify.EmailWorker{
		DB:     pool,
		Sender: sender,
		From:   cfg.NotifyEmailFrom,
		Log:    logger,
	}

	srv := asynq.NewServer(queueOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
	})

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := srv.Run(worker.Mux()); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}
