package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
	"github.com/mohammadpnp/field-productivity/internal/bootstrap"
	"github.com/mohammadpnp/field-productivity/internal/config"
	"github.com/mohammadpnp/field-productivity/internal/logger"
)

const serviceName = "field-productivity"

func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "fpt",
		Short:         "Field productivity tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")

	root.AddCommand(
		serveCommand(&configFile),
		syncCommand(&configFile),
		recalculateCommand(&configFile),
		recomputeCommand(&configFile),
	)
	return root
}

// withContainer loads settings, builds the container and runs fn with it.
func withContainer(ctx context.Context, configFile string, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

func serveCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), *configFile, serve)
		},
	}
}

func serve(ctx context.Context, c *bootstrap.Container) error {
	server := bootstrap.NewHTTPServer(c)

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("http server starting", zap.String("port", c.Config.HTTP.Port))
		if err := server.Start(":" + c.Config.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	c.Logger.Info("http server stopped")
	return nil
}

func syncCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [branch]",
		Short: "Import every new job of a branch from the job-management API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(systemContext(cmd), *configFile, func(ctx context.Context, c *bootstrap.Container) error {
				out, err := c.UseCases.SyncBranchJobs.Execute(ctx, app.SyncBranchJobsInput{Branch: args[0]})
				if err != nil {
					return err
				}
				c.Logger.Info("branch sync finished",
					zap.String("branch", out.Branch),
					zap.Int("processed", out.ProcessedCount),
					zap.Int("imported", out.ImportedCount),
					zap.Int("skipped", out.SkippedCount),
					zap.Int("failed", out.FailedCount),
				)
				return nil
			})
		},
	}
}

func recalculateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate-areas",
		Short: "Recompute the catalogue area of every stored job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(systemContext(cmd), *configFile, func(ctx context.Context, c *bootstrap.Container) error {
				out, err := c.UseCases.RecalculateJobAreas.Execute(ctx)
				if err != nil {
					return err
				}
				c.Logger.Info("job areas recalculated", zap.Int("updated", out.UpdatedCount))
				return nil
			})
		},
	}
}

func recomputeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-benchmarks",
		Short: "Rebuild the benchmark table from every installed-product record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(systemContext(cmd), *configFile, func(ctx context.Context, c *bootstrap.Container) error {
				out, err := c.UseCases.RecomputeBenchmarks.Execute(ctx)
				if err != nil {
					return err
				}
				c.Logger.Info("benchmarks recomputed",
					zap.Int("records", out.Records),
					zap.Int("benchmarks", out.Benchmarks),
				)
				return nil
			})
		},
	}
}

func systemContext(cmd *cobra.Command) context.Context {
	return app.WithCaller(cmd.Context(), app.SystemCaller())
}
