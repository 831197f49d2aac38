// Package config provides centralized configuration for the feature pipeline and the
// model trainer.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. A YAML configuration file (config.yaml or configs/config.yaml, or the file
//     named by STOCKANALYTICA_CONFIG_FILE)
//  3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern STOCKANALYTICA_<SECTION>_<KEY>:
//
//	STOCKANALYTICA_PIPELINE_DATA_ROOT=StockAnalyticaData
//	STOCKANALYTICA_PIPELINE_VERSIONS=v0,v1
//	STOCKANALYTICA_PIPELINE_OUTPUT_FORMAT=parquet
//	STOCKANALYTICA_TRAINING_TREES=100
//	STOCKANALYTICA_LOGGING_LEVEL=debug
//
// # Validation
//
// Load validates the assembled configuration with go-playground/validator struct tags
// and returns an error for values the pipeline cannot run with.
//
// # Paths
//
// GetPaths resolves every relative location against the working directory, so
// both entry points can run without arguments from the project root.
package config
