package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []int
		yPred []int
		want  float64
	}{
		{"all correct", []int{0, 1, 1}, []int{0, 1, 1}, 1},
		{"none correct", []int{0, 1}, []int{1, 0}, 0},
		{"two of four", []int{0, 0, 1, 1}, []int{0, 1, 1, 0}, 0.5},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Accuracy(tt.yTrue, tt.yPred))
		})
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{0, 0, 0, 0, 1, 1}
	yPred := []int{0, 0, 0, 1, 1, 0}

	labels := Labels(yTrue, yPred)
	assert.Equal(t, []int{0, 1}, labels)
	assert.Equal(t, [][]int{{3, 1}, {1, 1}}, ConfusionMatrix(yTrue, yPred, labels))
}

func TestNewClassificationReport(t *testing.T) {
	yTrue := []int{0, 0, 0, 0, 1, 1}
	yPred := []int{0, 0, 0, 1, 1, 0}

	report := NewClassificationReport(yTrue, yPred)

	assert.InDelta(t, 4.0/6.0, report.Accuracy, 1e-12)
	assert.Equal(t, 6, report.Support)
	require.Len(t, report.Classes, 2)

	zero := report.Classes[0]
	assert.Equal(t, "0", zero.Label)
	assert.InDelta(t, 0.75, zero.Precision, 1e-12)
	assert.InDelta(t, 0.75, zero.Recall, 1e-12)
	assert.InDelta(t, 0.75, zero.F1, 1e-12)
	assert.Equal(t, 4, zero.Support)

	one := report.Classes[1]
	assert.Equal(t, "1", one.Label)
	assert.InDelta(t, 0.5, one.Precision, 1e-12)
	assert.InDelta(t, 0.5, one.Recall, 1e-12)
	assert.InDelta(t, 0.5, one.F1, 1e-12)
	assert.Equal(t, 2, one.Support)

	assert.Equal(t, "macro avg", report.MacroAvg.Label)
	assert.InDelta(t, 0.625, report.MacroAvg.Precision, 1e-12)
	assert.InDelta(t, 0.625, report.MacroAvg.F1, 1e-12)
	assert.Equal(t, 6, report.MacroAvg.Support)

	assert.Equal(t, "weighted avg", report.WeightedAvg.Label)
	assert.InDelta(t, 4.0/6.0, report.WeightedAvg.Precision, 1e-12)
	assert.InDelta(t, 4.0/6.0, report.WeightedAvg.Recall, 1e-12)
}

func TestNewClassificationReport_UndefinedIsZero(t *testing.T) {
	// class 1 is never predicted so its precision is undefined
	report := NewClassificationReport([]int{0, 1, 0, 1}, []int{0, 0, 0, 0})

	require.Len(t, report.Classes, 2)
	one := report.Classes[1]
	assert.Equal(t, 0.0, one.Precision)
	assert.Equal(t, 0.0, one.Recall)
	assert.Equal(t, 0.0, one.F1)
	assert.Equal(t, 2, one.Support)

	zero := report.Classes[0]
	assert.InDelta(t, 0.5, zero.Precision, 1e-12)
	assert.Equal(t, 1.0, zero.Recall)
}

func TestNewClassificationReport_PredictedOnlyLabel(t *testing.T) {
	report := NewClassificationReport([]int{0, 0}, []int{0, 1})

	require.Len(t, report.Classes, 2)
	assert.Equal(t, "1", report.Classes[1].Label)
	assert.Equal(t, 0, report.Classes[1].Support)
	assert.Equal(t, 0.0, report.Classes[1].Recall)
}

func TestNewClassificationReport_Empty(t *testing.T) {
	report := NewClassificationReport(nil, nil)
	assert.Empty(t, report.Classes)
	assert.Equal(t, 0, report.Support)
	assert.Equal(t, 0.0, report.Accuracy)
}

func TestFormatReport(t *testing.T) {
	report := NewClassificationReport([]int{0, 0, 0, 0, 1, 1}, []int{0, 0, 0, 1, 1, 0})
	text := FormatReport(report)

	for _, want := range []string{"precision", "recall", "f1-score", "support", "accuracy", "macro avg", "weighted avg"} {
		assert.Contains(t, text, want)
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Contains(t, lines[2], "0.75")
	assert.Contains(t, lines[len(lines)-1], "0.67")
}
