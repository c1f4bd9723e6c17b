package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skill-radar/internal/config"
	"skill-radar/internal/dataset"
	"skill-radar/internal/delivery/http/middleware"
	"skill-radar/internal/delivery/http/routes"
	"skill-radar/internal/domain/skill"
	"skill-radar/internal/repository"
	"skill-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, uc usecase.SkillRiskUsecase, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, logger)
	routes.NewRegistry(uc, cfg.Dataset.Source).Register(f)

	return &App{Fiber: f}
}

// Bootstrap loads the dataset once and wires the HTTP app around it. Any
// failure here is fatal for the caller.
func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init container: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var repo repository.SkillRiskRepository
	if c.DB != nil {
		repo = repository.NewPostgresSkillRiskRepository(c.DB)
	}

	records, err := LoadDataset(ctx, cfg.Dataset, repo)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	var lookupCache usecase.SearchCache
	if c.Cache != nil {
		lookupCache = c.Cache
	}
	uc := usecase.NewSkillRiskUsecase(records, lookupCache, logger)

	return New(cfg, uc, logger), c.Close, nil
}

// LoadDataset reads the derived table from the configured source.
func LoadDataset(ctx context.Context, cfg config.DatasetConfig, repo repository.SkillRiskRepository) ([]skill.Record, error) {
	switch cfg.Source {
	case config.DatasetSourcePostgres:
		if repo == nil {
			return nil, fmt.Errorf("load dataset: postgres source without database")
		}
		if err := repo.CheckSchema(ctx); err != nil {
			return nil, fmt.Errorf("load dataset from postgres: %w", err)
		}
		records, err := repo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load dataset from postgres: %w", err)
		}
		return records, nil
	case config.DatasetSourceCSV, "":
		records, err := dataset.ReadDerivedFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("load dataset: unknown source %q", cfg.Source)
	}
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(middleware.NewCORS())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
