package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"skill-radar/internal/config"
	dbpostgres "skill-radar/internal/database/postgres"
	"skill-radar/internal/pkg/logging"
	"skill-radar/internal/repository"
	"skill-radar/internal/transform"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	opts := transform.Options{
		InputPath:  transform.DefaultInputPath,
		OutputPath: transform.DefaultOutputPath,
		Limit:      transform.DefaultSampleSize,
	}

	cmd := &cobra.Command{
		Use:           "transform",
		Short:         "Derive extinction-risk scores from the raw O*NET skills table",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", opts.Limit)
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.InputPath, "input", opts.InputPath, "raw skills CSV")
	f.StringVar(&opts.OutputPath, "output", opts.OutputPath, "derived dataset CSV")
	f.IntVar(&opts.Limit, "limit", opts.Limit, "rows kept in the derived dataset")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts transform.Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var publisher transform.Publisher
	if cfg.Database.Enabled() {
		connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(connCtx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer func() { _ = db.Close() }()

		repo := repository.NewPostgresSkillRiskRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure skill_risks schema: %w", err)
		}
		publisher = repo
		logger.Info("publishing to postgres", zap.String("host", cfg.Database.DBHost))
	}

	res, err := transform.NewPipeline(publisher, logger).Run(ctx, opts)
	if err != nil {
		return err
	}

	return transform.WritePreview(out, res, transform.PreviewRows)
}
