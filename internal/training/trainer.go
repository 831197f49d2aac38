package training

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stockanalytica/internal/classifier"
	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
	"stockanalytica/internal/exporter"
	"stockanalytica/internal/infrastructure"
	"stockanalytica/pkg/contracts/domain"
)

// Result is the outcome of a training run
type Result struct {
	Model      *classifier.RandomForest
	Evaluation *domain.Evaluation
}

// Trainer loads the dataset, fits the forest, evaluates it and persists the
// model together with its evaluation report
type Trainer struct {
	cfg     config.TrainingConfig
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewTrainer creates a trainer
func NewTrainer(cfg config.TrainingConfig, paths *config.Paths, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		cfg:    cfg,
		paths:  paths,
		logger: infrastructure.WithComponent(logger, "training"),
		tracer: otel.Tracer(infrastructure.MeterName),
		now:    time.Now,
	}
}

// WithMetrics attaches run metrics to the trainer
func (t *Trainer) WithMetrics(metrics *infrastructure.PipelineMetrics) *Trainer {
	t.metrics = metrics
	return t
}

// Train runs the whole training step
func (t *Trainer) Train(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "training.Train",
		trace.WithAttributes(attribute.String("dataset", t.paths.DatasetPath)))
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		t.metrics.RecordStage(ctx, "train", time.Since(start), err)
		span.End()
	}()

	if !config.FileExists(t.paths.DatasetPath) {
		return nil, errors.NewStorageError("dataset unavailable, run preprocess first",
			errors.NewNotFoundError(fmt.Sprintf("dataset %s", t.paths.DatasetPath)))
	}

	rows, err := exporter.LoadDataset(t.paths.DatasetPath)
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "Loaded dataset",
		slog.String("path", t.paths.DatasetPath),
		slog.Int("rows", len(rows)))

	train, test, err := SplitChronological(rows, t.cfg.TestRatio)
	if err != nil {
		return nil, err
	}

	xTrain, yTrain := Matrix(train)
	xTest, yTest := Matrix(test)

	forest := classifier.NewRandomForest(classifier.Params{
		Trees:    t.cfg.Trees,
		MaxDepth: t.cfg.MaxDepth,
		Seed:     t.cfg.Seed,
		Workers:  t.cfg.Workers,
	})

	fitStart := time.Now()
	if err := forest.Fit(ctx, xTrain, yTrain); err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "Fitted random forest",
		slog.Int("trees", len(forest.Trees)),
		slog.Int("max_depth", t.cfg.MaxDepth),
		slog.Int("train_rows", len(train)),
		slog.Duration("duration", time.Since(fitStart)))

	predictions := forest.Predict(xTest)
	report := classifier.NewClassificationReport(yTest, predictions)

	eval := &domain.Evaluation{
		RunID:     uuid.New().String(),
		TrainRows: len(train),
		TestRows:  len(test),
		Accuracy:  report.Accuracy,
		Report:    report,
		ModelPath: t.paths.ModelPath,
		CreatedAt: t.now().UTC(),
	}
	eval.TrainStart, eval.TrainEnd = timeRange(train)
	eval.TestStart, eval.TestEnd = timeRange(test)

	t.metrics.RecordModel(ctx, len(forest.Trees), eval.Accuracy)
	span.SetAttributes(attribute.Float64("accuracy", eval.Accuracy))

	t.logger.InfoContext(ctx, "Evaluated model",
		slog.String("run_id", eval.RunID),
		slog.Float64("accuracy", eval.Accuracy),
		slog.Int("test_rows", eval.TestRows))

	if err := t.persist(ctx, forest, eval); err != nil {
		return nil, err
	}

	return &Result{Model: forest, Evaluation: eval}, nil
}

func (t *Trainer) persist(ctx context.Context, forest *classifier.RandomForest, eval *domain.Evaluation) error {
	if err := forest.Save(t.paths.ModelPath); err != nil {
		return err
	}
	if err := exporter.WriteEvaluationJSON(eval, t.paths.ReportJSON); err != nil {
		return err
	}
	if t.cfg.ExportXLSX {
		if err := exporter.WriteEvaluationXLSX(eval, t.paths.ReportXLSX); err != nil {
			return err
		}
	}

	t.logger.InfoContext(ctx, "Saved model",
		slog.String("model", t.paths.ModelPath),
		slog.String("report", t.paths.ReportJSON))
	return nil
}

// SplitChronological keeps the first rows for training and the last
// ceil(testRatio*n) rows for testing
func SplitChronological(rows []domain.LabeledBar, testRatio float64) (train, test []domain.LabeledBar, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, errors.NewAppValidationError(fmt.Sprintf("test ratio %v must be between 0 and 1", testRatio))
	}

	n := len(rows)
	nTest := int(math.Ceil(testRatio * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, nil, errors.NewInvalidDatasetError(
			fmt.Sprintf("%d rows cannot be split with test ratio %v", n, testRatio))
	}

	return rows[:nTrain], rows[nTrain:], nil
}

// Matrix extracts feature vectors and targets
func Matrix(rows []domain.LabeledBar) ([][]float64, []int) {
	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, row := range rows {
		x[i] = row.Features()
		y[i] = row.Target
	}
	return x, y
}

func timeRange(rows []domain.LabeledBar) (first, last time.Time) {
	for i, row := range rows {
		if i == 0 || row.Timestamp.Before(first) {
			first = row.Timestamp
		}
		if i == 0 || row.Timestamp.After(last) {
			last = row.Timestamp
		}
	}
	return first, last
}
