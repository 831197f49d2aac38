package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file system location used by a pipeline or training run.
// Relative configuration values are resolved against the working directory.
type Paths struct {
	WorkingDir string

	DataRoot    string
	OutputPath  string
	SummaryPath string

	DatasetPath string
	ModelDir    string
	ModelPath   string
	ReportJSON  string
	ReportXLSX  string

	MetricsFile string
	LogFile     string
}

// GetPaths resolves the configured locations
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(wd, p)
	}

	modelDir := resolve(cfg.Training.ModelDir)

	return &Paths{
		WorkingDir:  wd,
		DataRoot:    resolve(cfg.Pipeline.DataRoot),
		OutputPath:  resolve(cfg.Pipeline.OutputPath),
		SummaryPath: resolve(cfg.Pipeline.SummaryPath),
		DatasetPath: resolve(cfg.Training.DatasetPath),
		ModelDir:    modelDir,
		ModelPath:   filepath.Join(modelDir, cfg.Training.ModelFile),
		ReportJSON:  filepath.Join(modelDir, ReportJSONFile),
		ReportXLSX:  filepath.Join(modelDir, ReportXLSXFile),
		MetricsFile: resolve(cfg.Telemetry.MetricsFile),
		LogFile:     resolve(cfg.Logging.FilePath),
	}, nil
}

// VersionDirs returns the version folders to process, in configuration order
func (p *Paths) VersionDirs(versions []string) []string {
	dirs := make([]string, 0, len(versions))
	for _, v := range versions {
		if filepath.IsAbs(v) {
			dirs = append(dirs, v)
			continue
		}
		dirs = append(dirs, filepath.Join(p.DataRoot, v))
	}
	return dirs
}

// EnsureParentDir creates the directory holding path if it doesn't exist
func EnsureParentDir(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	slog.Debug("Ensured directory exists", slog.String("directory", dir))
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
