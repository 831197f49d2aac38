// Package dataprocessing turns per-stock minute-bar CSV files into the
// labeled training dataset.
//
// # Architecture
//
// Each stock file flows through four stages, strictly forward:
//
// 1. Parser + Normalizer: reads the CSV, drops rows whose timestamp cannot be
// parsed, stable-sorts by timestamp and fills gaps (forward then backward).
// 2. Feature Engine: trailing time-window aggregates over (t-10m, t] computed
// with a RollingWindow deque, so irregular spacing is handled exactly.
// 3. Label Generator: target is 1 when the close five rows ahead is higher.
// The last rows of each stock, which have no future close, are dropped.
// 4. Corpus Combiner: per-stock frames are concatenated and stable-sorted by
// (timestamp, stock_name).
//
// # Usage
//
//	processor := dataprocessing.NewProcessor(cfg.Pipeline, logger)
//	rows, err := processor.ProcessVersions(ctx, paths.DataRoot, cfg.Pipeline.Versions)
//	if err != nil {
//	    return err
//	}
//	summary := dataprocessing.Summarize(rows)
//
// Structural problems (no files in a folder, a missing column) abort the run.
// A bad timestamp only drops its row.
package dataprocessing
