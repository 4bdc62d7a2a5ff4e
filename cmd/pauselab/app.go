package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/pauselab/internal/catalog"
	"github.com/dtroode/pauselab/internal/config"
	"github.com/dtroode/pauselab/internal/logger"
	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/reminder"
	"github.com/dtroode/pauselab/internal/repository/postgres"
	"github.com/dtroode/pauselab/internal/repository/redis"
	"github.com/dtroode/pauselab/internal/repository/sqlite"
	"github.com/dtroode/pauselab/internal/service"
	"github.com/dtroode/pauselab/internal/storage/minio"
	"github.com/dtroode/pauselab/internal/token"
)

const shutdownTimeout = 5 * time.Second

// app is the wired object graph shared by all commands of one invocation.
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	progress  *service.Progress
	scheduler *reminder.Scheduler
	catalog   *catalog.Catalog
	exporter  *service.Export

	redis   *goredis.Client
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}
	ready := false
	defer func() {
		if !ready {
			_ = a.close()
		}
	}()

	kv, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := a.newNotifier(ctx)
	if err != nil {
		return nil, err
	}

	a.scheduler, err = reminder.NewScheduler(notifier, reminder.DefaultPlan(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder scheduler: %w", err)
	}

	a.catalog, err = catalog.Load()
	if err != nil {
		return nil, err
	}

	var storage model.Storage
	if cfg.Export.Enabled {
		client, err := minio.Connect(ctx, minio.Options{
			Endpoint:  cfg.Export.Endpoint,
			AccessKey: cfg.Export.AccessKey,
			SecretKey: cfg.Export.SecretKey,
			UseSSL:    cfg.Export.UseSSL,
			Bucket:    cfg.Export.Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize export storage: %w", err)
		}
		storage = client
	}
	a.exporter = service.NewExport(storage, token.NewReceipts(cfg.Receipt.Secret), log)

	repo := service.NewPersistence(kv, cfg.Storage.Key, cfg.Storage.LoadTimeout, log)
	a.progress = service.NewProgress(repo, a.scheduler, log)
	a.progress.Start(ctx)
	if err := a.progress.Wait(ctx); err != nil {
		return nil, err
	}

	ready = true
	return a, nil
}

func (a *app) openStore(ctx context.Context) (model.KeyValueStore, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendPostgres:
		conn, err := postgres.NewConection(ctx, a.cfg.Database.DSN, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		return postgres.NewKVRepository(conn), nil

	case config.BackendRedis:
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return redis.NewKVRepository(client), nil

	default:
		db, err := sqlite.Open(ctx, a.cfg.SQLite.Path, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return sqlite.NewKVRepository(db), nil
	}
}

func (a *app) newNotifier(ctx context.Context) (reminder.Notifier, error) {
	if a.cfg.Reminders.Notifier != config.NotifierRedis {
		return reminder.NewLogNotifier(a.logger), nil
	}

	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return redis.NewPublisher(client, a.cfg.Redis.Channel, a.logger), nil
}

// redisClient connects once and shares the client between the store and
// the reminder publisher.
func (a *app) redisClient(ctx context.Context) (*goredis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}

	client, err := redis.Connect(ctx, redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.redis = client
	a.closers = append(a.closers, client.Close)
	return client, nil
}

func (a *app) close() error {
	var errs []error

	if a.scheduler != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		errs = append(errs, a.scheduler.CancelAll(ctx))
		cancel()
	}

	for _, c := range slices.Backward(a.closers) {
		errs = append(errs, c())
	}
	a.closers = nil

	return errors.Join(errs...)
}
