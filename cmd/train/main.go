// Command train fits the random forest on the preprocessed dataset and
// writes the model with its evaluation report.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"stockanalytica/internal/classifier"
	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
	"stockanalytica/internal/infrastructure"
	"stockanalytica/internal/training"
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
	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		infrastructure.LoggerWithContext(ctx).Error("Training failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

// run trains the model and prints the accuracy and classification report to out
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	paths, err := config.GetPaths(cfg)
	if err != nil {
		return err
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

	ctx, span := providers.StartSpan(ctx, "train")
	defer span.End()

	logger.InfoContext(ctx, "Starting training",
		slog.String("dataset", paths.DatasetPath),
		slog.String("otel_trace_id", infrastructure.TraceIDFromContext(ctx)),
		slog.Int("trees", cfg.Training.Trees),
		slog.Int("max_depth", cfg.Training.MaxDepth),
		slog.Int64("seed", cfg.Training.Seed))

	result, err := training.NewTrainer(cfg.Training, paths, logger).WithMetrics(metrics).Train(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Accuracy: %.4f\n", result.Evaluation.Accuracy)
	fmt.Fprintln(out, "Classification Report:")
	fmt.Fprint(out, classifier.FormatReport(result.Evaluation.Report))

	if cfg.Telemetry.MetricsEnabled {
		if err := providers.WriteMetricsFile(paths.MetricsFile); err != nil {
			return errors.NewStorageError("failed to write metrics file", err)
		}
	}

	return nil
}
