// Package exporter persists and reloads the combined dataset and writes
// training reports.
//
// Dataset savers share the DatasetSaver interface and are picked by format:
//
//	saver := exporter.NewDatasetSaver(cfg.Pipeline.OutputFormat) // csv, parquet or json
//	err := saver.Save(rows, paths.OutputPath)
//
// LoadDataset reads any of the three formats back. Floats are written with
// the shortest exact representation and timestamps keep their UTC offset,
// so a save and load returns the same values.
//
// Evaluation reports are written as JSON and as an Excel workbook:
//
//	err := exporter.WriteEvaluationJSON(eval, paths.ReportJSON)
//	err = exporter.WriteEvaluationXLSX(eval, paths.ReportXLSX)
package exporter
