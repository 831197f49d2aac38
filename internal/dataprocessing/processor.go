package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
	"stockanalytica/internal/files"
	"stockanalytica/internal/infrastructure"
	"stockanalytica/pkg/contracts/domain"
)

// FileResult is the outcome of processing one stock file
type FileResult struct {
	Path      string
	StockName string
	Stats     ParseStats
	Rows      []domain.LabeledBar
}

// Processor runs the normalize, feature and label stages over stock files
type Processor struct {
	suffix  string
	window  time.Duration
	horizon int
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
	tracer  trace.Tracer
}

// NewProcessor creates a processor from pipeline settings
func NewProcessor(cfg config.PipelineConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		suffix:  cfg.FileSuffix,
		window:  cfg.Window,
		horizon: cfg.Horizon,
		logger:  infrastructure.WithComponent(logger, "dataprocessing"),
		tracer:  otel.Tracer(infrastructure.MeterName),
	}
}

// WithMetrics attaches run metrics to the processor
func (p *Processor) WithMetrics(metrics *infrastructure.PipelineMetrics) *Processor {
	p.metrics = metrics
	return p
}

// ProcessFile parses, normalizes, featurizes and labels a single stock file
func (p *Processor) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	stock := files.StockNameFromFile(path, p.suffix)

	ctx, span := p.tracer.Start(ctx, "dataprocessing.ProcessFile",
		trace.WithAttributes(attribute.String("stock", stock)))
	defer span.End()

	bars, stats, err := ParseBarsCSV(path, stock)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	if stats.AllDropped() {
		p.logger.WarnContext(ctx, "No row of the file has a parseable timestamp",
			slog.String("file", filepath.Base(path)),
			slog.Int("dropped", stats.DroppedTimestamp),
			slog.String("first_error", stats.FirstDropped.Error()))
	} else if stats.FirstDropped != nil {
		p.logger.DebugContext(ctx, "Dropped rows with unparseable timestamps",
			slog.String("file", filepath.Base(path)),
			slog.Int("dropped", stats.DroppedTimestamp),
			slog.String("first_error", stats.FirstDropped.Error()))
	}

	normalized := Normalize(bars)
	featured := ComputeFeatures(normalized, p.window)
	labeled := GenerateLabels(featured, p.horizon)

	p.metrics.RecordFile(ctx, stock, stats.RowsRead, stats.DroppedTimestamp, len(labeled))
	span.SetAttributes(attribute.Int("rows", len(labeled)))

	p.logger.InfoContext(ctx, "Processed file",
		slog.String("file", filepath.Base(path)),
		slog.String("stock", stock),
		slog.Int("rows", len(labeled)))

	return &FileResult{
		Path:      path,
		StockName: stock,
		Stats:     stats,
		Rows:      labeled,
	}, nil
}

// ProcessFolder processes every .csv stock file in folder and
// concatenates the results in file name order. A folder without matching
// files is a FileDiscoveryError.
func (p *Processor) ProcessFolder(ctx context.Context, folder string) ([]domain.LabeledBar, error) {
	ctx, span := p.tracer.Start(ctx, "dataprocessing.ProcessFolder",
		trace.WithAttributes(attribute.String("folder", folder)))
	defer span.End()

	discovery := files.NewDiscovery("")
	pattern := "*" + files.DataFileExtension
	stockFiles, err := discovery.FindFilesByExtension(folder, files.DataFileExtension)
	if err != nil {
		err = errors.NewFileDiscoveryError(folder, pattern, err)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	if len(stockFiles) == 0 {
		err := errors.NewFileDiscoveryError(folder, pattern, nil)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	var rows []domain.LabeledBar
	for _, f := range stockFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := p.ProcessFile(ctx, f.Path)
		if err != nil {
			return nil, err
		}
		rows = append(rows, result.Rows...)
	}

	summary := Summarize(rows)
	p.logger.InfoContext(ctx, "All files processed",
		slog.String("folder", folder),
		slog.Int("files", len(stockFiles)),
		slog.Int("rows", summary.Rows),
		slog.Int("columns", summary.Columns),
		slog.Time("time_min", summary.TimeMin),
		slog.Time("time_max", summary.TimeMax))

	return rows, nil
}

// ProcessVersions processes each version folder under dataRoot and combines
// the results. With no versions given every subdirectory of dataRoot is used.
func (p *Processor) ProcessVersions(ctx context.Context, dataRoot string, versions []string) ([]domain.LabeledBar, error) {
	start := time.Now()
	rows, err := p.processVersions(ctx, dataRoot, versions)
	p.metrics.RecordStage(ctx, "preprocess", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordCombined(ctx, len(rows))
	return rows, nil
}

func (p *Processor) processVersions(ctx context.Context, dataRoot string, versions []string) ([]domain.LabeledBar, error) {
	ctx, span := p.tracer.Start(ctx, "dataprocessing.ProcessVersions")
	defer span.End()

	folders, err := p.versionFolders(dataRoot, versions)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	frames := make([][]domain.LabeledBar, 0, len(folders))
	for _, folder := range folders {
		rows, err := p.ProcessFolder(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("process folder %s: %w", folder, err)
		}
		frames = append(frames, rows)
	}

	combined := CombineFrames(frames...)
	span.SetAttributes(attribute.Int("rows", len(combined)), attribute.Int("folders", len(folders)))
	return combined, nil
}

func (p *Processor) versionFolders(dataRoot string, versions []string) ([]string, error) {
	if len(versions) > 0 {
		paths := &config.Paths{DataRoot: dataRoot}
		return paths.VersionDirs(versions), nil
	}

	dirs, err := files.NewDiscovery("").ListDirectories(dataRoot)
	if err != nil || len(dirs) == 0 {
		return nil, errors.NewFileDiscoveryError(dataRoot, "<version folder>", err)
	}

	folders := make([]string, len(dirs))
	for i, d := range dirs {
		folders[i] = d.Path
	}
	return folders, nil
}
