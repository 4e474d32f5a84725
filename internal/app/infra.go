package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charly-com/safenaija/internal/config"
	"github.com/charly-com/safenaija/internal/db"
	"github.com/charly-com/safenaija/internal/incident"
	"github.com/charly-com/safenaija/internal/logger"
	"github.com/charly-com/safenaija/internal/redis"
	"github.com/charly-com/safenaija/internal/safety"
	"github.com/charly-com/safenaija/internal/session"
)

// Infra holds the optional backing services. Nil fields are not configured.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
	AMQP  *incident.AMQPPublisher
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		database, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		infra.DB = database

		if err := db.RunIncidentMigration(ctx, database.DB); err != nil {
			_ = infra.Close()
			return nil, err
		}

		logger.Info("database ready", nil)
	}

	if cfg.SessionBackend == config.BackendRedis {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Redis = redisClient

		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	if cfg.AMQPURL != "" {
		publisher, err := incident.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.AMQP = publisher

		logger.Info("amqp ready", map[string]any{"exchange": cfg.AMQPExchange})
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.AMQP != nil {
		errs = append(errs, i.AMQP.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}

func (i *Infra) sessionStore(cfg config.Config) (session.Store, func() error) {
	if i.Redis != nil {
		return session.NewRedisStore(i.Redis.Client, cfg.SessionIdleTimeout), nil
	}
	store := session.NewMemoryStore(cfg.SessionIdleTimeout)
	return store, store.Close
}

// sink always logs, and also persists and publishes when those backends
// are configured.
func (i *Infra) sink(cfg config.Config) *incident.Fanout {
	fanout := incident.NewFanout().Add("log", incident.LogSink{})
	if i.DB != nil {
		fanout.Add("postgres", incident.NewPostgresSink(i.DB.DB))
	}
	if i.AMQP != nil {
		fanout.Add("amqp", incident.NewAMQPSink(i.AMQP, cfg.AMQPExchange))
	}
	return fanout
}

func (i *Infra) safetyChecker(cfg config.Config) (safety.Checker, error) {
	random := func() safety.Checker {
		return safety.NewRandomChecker(uint64(time.Now().UnixNano()))
	}

	switch cfg.SafetyChecker {
	case "random":
		return random(), nil
	case "reports":
		if i.DB == nil {
			return nil, errors.New("app: SAFETY_CHECKER=reports needs DATABASE_DSN")
		}
		return safety.NewReportDensityChecker(i.DB.DB), nil
	case "auto", "":
		if i.DB != nil {
			return safety.NewReportDensityChecker(i.DB.DB), nil
		}
		return random(), nil
	default:
		return nil, fmt.Errorf("app: unknown SAFETY_CHECKER %q", cfg.SafetyChecker)
	}
}
