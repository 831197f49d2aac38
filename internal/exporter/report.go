package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
	"stockanalytica/pkg/contracts/domain"
)

const (
	summarySheet = "Summary"
	classesSheet = "Classes"
)

// WriteEvaluationJSON writes a training evaluation as indented JSON
func WriteEvaluationJSON(eval *domain.Evaluation, path string) error {
	if err := config.EnsureParentDir(path); err != nil {
		return errors.NewStorageError("failed to create report directory", err)
	}

	data, err := json.MarshalIndent(eval, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write report %s", path), err)
	}
	return nil
}

// WriteEvaluationXLSX writes a training evaluation as a workbook with a
// Summary sheet and a per-class Classes sheet
func WriteEvaluationXLSX(eval *domain.Evaluation, path string) error {
	if err := config.EnsureParentDir(path); err != nil {
		return errors.NewStorageError("failed to create report directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]interface{}{
		{"Run ID", eval.RunID},
		{"Created", eval.CreatedAt.Format(time.RFC3339)},
		{"Model", eval.ModelPath},
		{"Train rows", eval.TrainRows},
		{"Test rows", eval.TestRows},
		{"Train start", formatTimestamp(eval.TrainStart)},
		{"Train end", formatTimestamp(eval.TrainEnd)},
		{"Test start", formatTimestamp(eval.TestStart)},
		{"Test end", formatTimestamp(eval.TestEnd)},
		{"Accuracy", eval.Accuracy},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	if _, err := f.NewSheet(classesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []interface{}{"class", "precision", "recall", "f1-score", "support"}
	if err := f.SetSheetRow(classesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(classesSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	report := eval.Report
	rows := make([]domain.ClassMetrics, 0, len(report.Classes)+2)
	rows = append(rows, report.Classes...)
	rows = append(rows, report.MacroAvg, report.WeightedAvg)

	for i, m := range rows {
		values := []interface{}{m.Label, m.Precision, m.Recall, m.F1, m.Support}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(classesSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write class row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}
	return nil
}
