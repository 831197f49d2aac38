package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "STOCKANALYTICA"

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Training  TrainingConfig  `yaml:"training" envconfig:"TRAINING"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PipelineConfig configures the feature pipeline that builds the combined dataset
type PipelineConfig struct {
	DataRoot     string        `yaml:"data_root" envconfig:"DATA_ROOT" validate:"required"`
	Versions     []string      `yaml:"versions" envconfig:"VERSIONS"`
	FileSuffix   string        `yaml:"file_suffix" envconfig:"FILE_SUFFIX" validate:"required"`
	Window       time.Duration `yaml:"window" envconfig:"WINDOW" validate:"gt=0"`
	Horizon      int           `yaml:"horizon" envconfig:"HORIZON" validate:"min=1"`
	OutputPath   string        `yaml:"output_path" envconfig:"OUTPUT_PATH" validate:"required"`
	OutputFormat string        `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"oneof=csv parquet json"`
	SummaryPath  string        `yaml:"summary_path" envconfig:"SUMMARY_PATH"`
}

// TrainingConfig configures the model trainer
type TrainingConfig struct {
	DatasetPath string  `yaml:"dataset_path" envconfig:"DATASET_PATH" validate:"required"`
	ModelDir    string  `yaml:"model_dir" envconfig:"MODEL_DIR" validate:"required"`
	ModelFile   string  `yaml:"model_file" envconfig:"MODEL_FILE" validate:"required"`
	TestRatio   float64 `yaml:"test_ratio" envconfig:"TEST_RATIO" validate:"gt=0,lt=1"`
	Trees       int     `yaml:"trees" envconfig:"TREES" validate:"min=1"`
	MaxDepth    int     `yaml:"max_depth" envconfig:"MAX_DEPTH" validate:"min=1"`
	Seed        int64   `yaml:"seed" envconfig:"SEED"`
	Workers     int     `yaml:"workers" envconfig:"WORKERS" validate:"min=0"`
	ExportXLSX  bool    `yaml:"export_xlsx" envconfig:"EXPORT_XLSX"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and run-metrics configuration
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from defaults, an optional config file and environment
// variables. Environment variables take precedence over the file.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// envconfig only touches fields whose variable is set, so file values survive
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Telemetry.MetricsEnabled && c.Telemetry.MetricsFile == "" {
		return fmt.Errorf("telemetry.metrics_file is required when metrics are enabled")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			DataRoot:     DefaultDataRoot,
			Versions:     []string{DefaultVersion},
			FileSuffix:   DefaultFileSuffix,
			Window:       DefaultWindow,
			Horizon:      DefaultHorizon,
			OutputPath:   DefaultOutputPath,
			OutputFormat: DefaultOutputFormat,
		},
		Training: TrainingConfig{
			DatasetPath: DefaultOutputPath,
			ModelDir:    DefaultModelDir,
			ModelFile:   DefaultModelFile,
			TestRatio:   DefaultTestRatio,
			Trees:       DefaultTrees,
			MaxDepth:    DefaultMaxDepth,
			Seed:        DefaultSeed,
			Workers:     0,
			ExportXLSX:  true,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricsEnabled: true,
			MetricsFile:    DefaultMetricsFile,
		},
	}
}
