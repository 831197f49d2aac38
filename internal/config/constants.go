package config

import "time"

// Application constants
const (
	AppName    = "StockAnalytica"
	AppVersion = "1.0.0"

	// Input layout
	DefaultDataRoot   = "StockAnalyticaData"
	DefaultVersion    = "v0"
	DefaultFileSuffix = "__EQ__NSE__NSE__MINUTE.csv"

	// Feature pipeline
	DefaultWindow       = 10 * time.Minute
	DefaultHorizon      = 5
	DefaultOutputPath   = "data.csv"
	DefaultOutputFormat = "csv"

	// Model trainer
	DefaultModelDir  = "artifacts"
	DefaultModelFile = "model.json"
	DefaultTestRatio = 0.2
	DefaultTrees     = 100
	DefaultMaxDepth  = 10
	DefaultSeed      = 42

	// Evaluation report files, written next to the model
	ReportJSONFile = "report.json"
	ReportXLSXFile = "report.xlsx"

	// Log and metrics settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogFile     = "logs/app.log"
	DefaultMetricsFile = "artifacts/metrics.prom"
)
