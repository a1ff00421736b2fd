package main

import (
	"context"
	"fmt"
	"log/slog"

	"govintel/internal/platform/config"
	"govintel/internal/platform/postgres"
	platformredis "govintel/internal/platform/redis"
	audit "govintel/pkg/platform/audit"
	"govintel/pkg/platform/audit/store/file"
	"govintel/pkg/platform/audit/store/kafka"
	"govintel/pkg/platform/audit/store/memory"
	pgstore "govintel/pkg/platform/audit/store/postgres"
	redisstore "govintel/pkg/platform/audit/store/redis"
)

// auditSink is the selected store plus whatever must be released on shutdown.
type auditSink struct {
	store audit.Store
	close func()
}

func openAuditSink(ctx context.Context, cfg config.Config, logger *slog.Logger) (*auditSink, error) {
	switch cfg.Audit.Sink {
	case config.SinkFile:
		st, err := file.Open(cfg.Audit.FilePath, file.WithFsync(cfg.Audit.Fsync))
		if err != nil {
			return nil, fmt.Errorf("open audit file: %w", err)
		}
		logger.Info("audit sink ready", "sink", cfg.Audit.Sink, "path", cfg.Audit.FilePath, "fsync", cfg.Audit.Fsync)
		return &auditSink{store: st, close: func() { _ = st.Close() }}, nil

	case config.SinkMemory:
		logger.Warn("audit sink is in-memory; entries are lost on exit")
		return &auditSink{store: memory.NewInMemoryStore(), close: func() {}}, nil

	case config.SinkPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		st := pgstore.New(db)
		if err := st.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure audit schema: %w", err)
		}
		logger.Info("audit sink ready", "sink", cfg.Audit.Sink)
		return &auditSink{store: st, close: func() { _ = db.Close() }}, nil

	case config.SinkRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("redis audit sink requires REDIS_URL")
		}
		logger.Info("audit sink ready", "sink", cfg.Audit.Sink, "stream", cfg.Redis.Stream)
		return &auditSink{
			store: redisstore.New(client.Client, cfg.Redis.Stream),
			close: func() { _ = client.Close() },
		}, nil

	case config.SinkKafka:
		st, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, fmt.Errorf("create kafka audit client: %w", err)
		}
		if err := st.EnsureTopic(ctx, 1); err != nil {
			st.Close()
			return nil, fmt.Errorf("ensure audit topic: %w", err)
		}
		logger.Info("audit sink ready", "sink", cfg.Audit.Sink, "topic", cfg.Kafka.Topic)
		return &auditSink{store: st, close: st.Close}, nil

	default:
		return nil, fmt.Errorf("unknown audit sink %q", cfg.Audit.Sink)
	}
}
