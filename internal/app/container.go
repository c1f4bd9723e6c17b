package app

import (
	"context"
	"errors"
	"time"

	"skill-radar/internal/config"
	"skill-radar/internal/database"
	dbpostgres "skill-radar/internal/database/postgres"
	"skill-radar/internal/infrastructure/cache"

	"go.uber.org/zap"
)

// Container owns the optional external resources. DB and Cache are nil when
// not configured.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg}

	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		c.DB = db
	}

	if cfg.Cache.Enabled() {
		c.Cache = cache.NewRedis(cfg.Cache, logger)
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
