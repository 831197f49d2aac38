package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"stockanalytica/internal/config"
)

// traceIDAttr is the record key carrying the run's trace id
const traceIDAttr = "trace_id"

var (
	// stdout is where console output goes; tests swap it for a buffer
	stdout io.Writer = os.Stdout

	logFileMu sync.Mutex
	logFile   *os.File
)

// InitializeLogger builds the process logger from cfg and installs it as the
// slog default. Records carry their source position and the trace id of the
// context they are logged with. A log file opened by an earlier call is
// closed once the new logger is in place.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	output, file, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(cfg.Level),
	})
	logger := slog.New(&traceHandler{Handler: handler})
	slog.SetDefault(logger)

	if err := replaceLogFile(file); err != nil {
		return logger, fmt.Errorf("failed to close previous log file: %w", err)
	}
	return logger, nil
}

// NewLogger builds a JSON logger writing to w without touching the default
// logger or the log file.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)})
	return slog.New(&traceHandler{Handler: handler})
}

// GetLogger returns the logger installed by InitializeLogger, or slog's
// default before that.
func GetLogger() *slog.Logger {
	return slog.Default()
}

// CloseLogFile closes the log file opened by InitializeLogger. It is safe to
// call more than once.
func CloseLogFile() error {
	return replaceLogFile(nil)
}

// logOutput resolves cfg.Output to a writer. file is non-nil when the writer
// includes a log file the caller now owns.
func logOutput(cfg config.LoggingConfig) (w io.Writer, file *os.File, err error) {
	switch strings.ToLower(cfg.Output) {
	case "", "console", "stdout":
		return stdout, nil, nil
	case "file":
		file, err = openLogFile(cfg.FilePath)
		return file, file, err
	case "both":
		file, err = openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return io.MultiWriter(stdout, file), file, nil
	default:
		return nil, nil, fmt.Errorf("unsupported log output %q", cfg.Output)
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := config.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// replaceLogFile installs f as the current log file and closes the old one
func replaceLogFile(f *os.File) error {
	logFileMu.Lock()
	previous := logFile
	logFile = f
	logFileMu.Unlock()

	if previous == nil || previous == f {
		return nil
	}
	return previous.Close()
}

// traceHandler adds the context's trace id to every record, unless the
// logger already had one bound with With.
type traceHandler struct {
	slog.Handler
	bound bool
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.bound {
		if traceID := GetTraceID(ctx); traceID != "" {
			r.AddAttrs(slog.String(traceIDAttr, traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.bound
	for _, a := range attrs {
		if a.Key == traceIDAttr {
			bound = true
		}
	}
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs), bound: bound}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name), bound: h.bound}
}

// parseLogLevel accepts slog level names in any case plus "warning".
// Anything else logs at info.
func parseLogLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
