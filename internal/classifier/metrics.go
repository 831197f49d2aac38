package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"stockanalytica/pkg/contracts/domain"
)

// Accuracy returns the share of positions where prediction equals truth
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// Labels returns the sorted union of the labels in yTrue and yPred
func Labels(yTrue, yPred []int) []int {
	all := make([]int, 0, len(yTrue)+len(yPred))
	all = append(all, yTrue...)
	all = append(all, yPred...)
	return uniqueSorted(all)
}

// ConfusionMatrix counts (true, predicted) pairs; rows are true labels and
// columns predicted labels, both in labels order
func ConfusionMatrix(yTrue, yPred, labels []int) [][]int {
	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	m := make([][]int, len(labels))
	for i := range m {
		m[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		t, ok1 := index[yTrue[i]]
		p, ok2 := index[yPred[i]]
		if ok1 && ok2 {
			m[t][p]++
		}
	}
	return m
}

// NewClassificationReport computes per-class precision, recall, F1 and
// support plus their macro and support-weighted averages. Undefined ratios
// (no predictions or no samples of a class) count as 0.
func NewClassificationReport(yTrue, yPred []int) domain.ClassificationReport {
	labels := Labels(yTrue, yPred)
	cm := ConfusionMatrix(yTrue, yPred, labels)

	report := domain.ClassificationReport{
		Accuracy: Accuracy(yTrue, yPred),
		Support:  len(yTrue),
	}
	if len(labels) == 0 {
		return report
	}

	precision := make([]float64, len(labels))
	recall := make([]float64, len(labels))
	f1 := make([]float64, len(labels))
	support := make([]float64, len(labels))

	for i, label := range labels {
		tp := cm[i][i]
		predicted, actual := 0, 0
		for j := range labels {
			predicted += cm[j][i]
			actual += cm[i][j]
		}

		precision[i] = ratio(tp, predicted)
		recall[i] = ratio(tp, actual)
		if precision[i]+recall[i] > 0 {
			f1[i] = 2 * precision[i] * recall[i] / (precision[i] + recall[i])
		}
		support[i] = float64(actual)

		report.Classes = append(report.Classes, domain.ClassMetrics{
			Label:     strconv.Itoa(label),
			Precision: precision[i],
			Recall:    recall[i],
			F1:        f1[i],
			Support:   actual,
		})
	}

	report.MacroAvg = domain.ClassMetrics{
		Label:     "macro avg",
		Precision: stat.Mean(precision, nil),
		Recall:    stat.Mean(recall, nil),
		F1:        stat.Mean(f1, nil),
		Support:   len(yTrue),
	}

	report.WeightedAvg = domain.ClassMetrics{Label: "weighted avg", Support: len(yTrue)}
	if len(yTrue) > 0 {
		report.WeightedAvg.Precision = stat.Mean(precision, support)
		report.WeightedAvg.Recall = stat.Mean(recall, support)
		report.WeightedAvg.F1 = stat.Mean(f1, support)
	}

	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// FormatReport renders a report as a plain text table
func FormatReport(report domain.ClassificationReport) string {
	var b strings.Builder
	width := len("weighted avg")
	for _, c := range report.Classes {
		width = max(width, len(c.Label))
	}

	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range report.Classes {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", report.Accuracy, report.Support)
	for _, c := range []domain.ClassMetrics{report.MacroAvg, report.WeightedAvg} {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	return b.String()
}
