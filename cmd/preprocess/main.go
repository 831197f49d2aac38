// Command preprocess builds the labeled training dataset from the per-stock
// minute-bar files of every configured data version.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"stockanalytica/internal/config"
	"stockanalytica/internal/dataprocessing"
	"stockanalytica/internal/errors"
	"stockanalytica/internal/exporter"
	"stockanalytica/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())
	if err := run(ctx, cfg, logger); err != nil {
		infrastructure.LoggerWithContext(ctx).Error("Preprocessing failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	paths, err := config.GetPaths(cfg)
	if err != nil {
		return err
	}

	saver := exporter.NewDatasetSaver(cfg.Pipeline.OutputFormat)
	if saver == nil {
		return errors.NewConfigError(fmt.Sprintf("unsupported output format %q", cfg.Pipeline.OutputFormat), nil)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to shut down telemetry", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return err
	}

	ctx, span := providers.StartSpan(ctx, "preprocess")
	defer span.End()

	logger.InfoContext(ctx, "Starting preprocessing",
		slog.String("data_root", paths.DataRoot),
		slog.String("otel_trace_id", infrastructure.TraceIDFromContext(ctx)),
		slog.Any("versions", cfg.Pipeline.Versions),
		slog.Duration("window", cfg.Pipeline.Window),
		slog.Int("horizon", cfg.Pipeline.Horizon))

	processor := dataprocessing.NewProcessor(cfg.Pipeline, logger).WithMetrics(metrics)
	rows, err := processor.ProcessVersions(ctx, paths.DataRoot, cfg.Pipeline.Versions)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}

	if err := saver.Save(rows, paths.OutputPath); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}

	summary := dataprocessing.Summarize(rows)
	logger.InfoContext(ctx, "Saved dataset",
		slog.String("path", paths.OutputPath),
		slog.String("format", saver.Extension()),
		slog.Int("rows", summary.Rows),
		slog.Int("stocks", summary.Stocks),
		slog.Time("time_min", summary.TimeMin),
		slog.Time("time_max", summary.TimeMax))

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"rows":   summary.Rows,
		"stocks": summary.Stocks,
	})

	if paths.SummaryPath != "" {
		if err := dataprocessing.WriteSummary(summary, paths.SummaryPath); err != nil {
			return err
		}
	}

	if cfg.Telemetry.MetricsEnabled {
		if err := providers.WriteMetricsFile(paths.MetricsFile); err != nil {
			return errors.NewStorageError("failed to write metrics file", err)
		}
	}

	return nil
}
