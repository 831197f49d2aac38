package classifier

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stockanalytica/internal/errors"
)

func defaultParams() Params {
	return Params{Trees: 100, MaxDepth: 10, Seed: 42}
}

// noisyData returns n rows of 7 features whose label depends on the first
// two features plus noise
func noisyData(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		row := make([]float64, 7)
		for j := range row {
			row[j] = rng.Float64() * 100
		}
		x[i] = row
		if row[0]+row[1]+rng.NormFloat64()*10 > 100 {
			y[i] = 1
		}
	}
	return x, y
}

// gapData returns two clusters separated on every feature
func gapData(n int) ([][]float64, []int) {
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		offset := 0.0
		if i%2 == 1 {
			offset = 10
			y[i] = 1
		}
		frac := float64(i) / float64(n)
		x[i] = []float64{offset + frac, offset + 1 - frac}
	}
	return x, y
}

func TestRandomForest_FitDeterministic(t *testing.T) {
	x, y := noisyData(300, 7)
	ctx := context.Background()

	var predictions [][]int
	for _, workers := range []int{1, 4, 16} {
		params := defaultParams()
		params.Workers = workers
		forest := NewRandomForest(params)
		require.NoError(t, forest.Fit(ctx, x, y))
		predictions = append(predictions, forest.Predict(x))

		again := NewRandomForest(params)
		require.NoError(t, again.Fit(ctx, x, y))
		assert.Equal(t, forest.Trees, again.Trees, "same seed must grow identical trees (workers=%d)", workers)
	}

	assert.Equal(t, predictions[0], predictions[1])
	assert.Equal(t, predictions[0], predictions[2])
}

func TestRandomForest_SeedChangesTrees(t *testing.T) {
	x, y := noisyData(200, 3)
	ctx := context.Background()

	a := NewRandomForest(Params{Trees: 10, MaxDepth: 5, Seed: 1})
	b := NewRandomForest(Params{Trees: 10, MaxDepth: 5, Seed: 2})
	require.NoError(t, a.Fit(ctx, x, y))
	require.NoError(t, b.Fit(ctx, x, y))

	assert.NotEqual(t, a.Trees, b.Trees)
}

func TestRandomForest_Separable(t *testing.T) {
	x, y := gapData(100)
	forest := NewRandomForest(defaultParams())
	require.NoError(t, forest.Fit(context.Background(), x, y))

	assert.True(t, forest.IsFitted())
	assert.Len(t, forest.Trees, 100)
	assert.Equal(t, []int{0, 1}, forest.Classes)
	assert.Equal(t, 2, forest.Features)
	assert.Equal(t, y, forest.Predict(x))
	assert.Equal(t, []int{0, 1}, forest.Predict([][]float64{{-5, -5}, {50, 50}}))
}

func TestRandomForest_SingleClass(t *testing.T) {
	x, _ := noisyData(50, 11)
	y := make([]int, len(x))

	forest := NewRandomForest(defaultParams())
	require.NoError(t, forest.Fit(context.Background(), x, y))

	assert.Equal(t, []int{0}, forest.Classes)
	for _, tree := range forest.Trees {
		assert.Len(t, tree.Nodes, 1)
	}
	assert.Equal(t, y, forest.Predict(x))
	assert.Equal(t, 1.0, Accuracy(y, forest.Predict(x)))
}

func TestRandomForest_NonContiguousLabels(t *testing.T) {
	x, y := gapData(40)
	for i := range y {
		y[i] = y[i]*5 - 1
	}

	forest := NewRandomForest(Params{Trees: 10, MaxDepth: 3, Seed: 42})
	require.NoError(t, forest.Fit(context.Background(), x, y))

	assert.Equal(t, []int{-1, 4}, forest.Classes)
	assert.Equal(t, y, forest.Predict(x))
}

func TestRandomForest_MaxDepth(t *testing.T) {
	x, y := noisyData(400, 5)

	for _, depth := range []int{1, 3, 10} {
		forest := NewRandomForest(Params{Trees: 20, MaxDepth: depth, Seed: 42})
		require.NoError(t, forest.Fit(context.Background(), x, y))
		for i, tree := range forest.Trees {
			assert.LessOrEqual(t, tree.Depth(), depth, "tree %d", i)
		}
	}
}

func TestRandomForest_PredictProba(t *testing.T) {
	x, y := noisyData(200, 9)
	forest := NewRandomForest(Params{Trees: 25, MaxDepth: 6, Seed: 42})
	require.NoError(t, forest.Fit(context.Background(), x, y))

	for _, p := range forest.PredictProba(x[:20]) {
		require.Len(t, p, 2)
		assert.InDelta(t, 1.0, p[0]+p[1], 1e-9)
		assert.GreaterOrEqual(t, p[0], 0.0)
		assert.GreaterOrEqual(t, p[1], 0.0)
	}
}

func TestRandomForest_TieGoesToSmallerClass(t *testing.T) {
	forest := &RandomForest{
		Classes: []int{0, 1},
		Trees: []*DecisionTree{
			{Nodes: []Node{{Feature: leaf, Left: leaf, Right: leaf, Value: []float64{1, 0}}}},
			{Nodes: []Node{{Feature: leaf, Left: leaf, Right: leaf, Value: []float64{0, 1}}}},
		},
	}
	assert.Equal(t, []int{0}, forest.Predict([][]float64{{1}}))
}

func TestRandomForest_FitErrors(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		x       [][]float64
		y       []int
		wantErr error
	}{
		{
			name:    "no samples",
			params:  defaultParams(),
			wantErr: apperrors.ErrInvalidDataset,
		},
		{
			name:    "label count mismatch",
			params:  defaultParams(),
			x:       [][]float64{{1}, {2}},
			y:       []int{0},
			wantErr: apperrors.ErrInvalidDataset,
		},
		{
			name:    "ragged rows",
			params:  defaultParams(),
			x:       [][]float64{{1, 2}, {3}},
			y:       []int{0, 1},
			wantErr: apperrors.ErrInvalidDataset,
		},
		{
			name:    "NaN feature",
			params:  defaultParams(),
			x:       [][]float64{{1}, {math.NaN()}},
			y:       []int{0, 1},
			wantErr: apperrors.ErrInvalidDataset,
		},
		{
			name:    "infinite feature",
			params:  defaultParams(),
			x:       [][]float64{{1}, {math.Inf(1)}},
			y:       []int{0, 1},
			wantErr: apperrors.ErrInvalidDataset,
		},
		{
			name:   "no trees",
			params: Params{MaxDepth: 10},
			x:      [][]float64{{1}, {2}},
			y:      []int{0, 1},
		},
		{
			name:   "no depth",
			params: Params{Trees: 10},
			x:      [][]float64{{1}, {2}},
			y:      []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := NewRandomForest(tt.params)
			err := forest.Fit(context.Background(), tt.x, tt.y)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.False(t, forest.IsFitted())
		})
	}
}

func TestRandomForest_FitCancelled(t *testing.T) {
	x, y := noisyData(100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	forest := NewRandomForest(defaultParams())
	err := forest.Fit(ctx, x, y)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, forest.IsFitted())
}

func TestDecisionTree_ConstantFeatures(t *testing.T) {
	x := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	y := []int{0, 1, 0, 1}
	weight := []float64{1, 1, 1, 1}

	tree := fitTree(x, y, weight, 2, 10, 2, rand.New(rand.NewSource(1)))
	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, []float64{0.5, 0.5}, tree.PredictProba([]float64{1, 1}))
}

func TestDecisionTree_SkipsConstantFeature(t *testing.T) {
	// only feature 1 varies; with maxFeatures 1 the constant feature must
	// not use up the single candidate slot
	x := [][]float64{{7, 0}, {7, 1}, {7, 10}, {7, 11}}
	y := []int{0, 0, 1, 1}
	weight := []float64{1, 1, 1, 1}

	for seed := int64(0); seed < 10; seed++ {
		tree := fitTree(x, y, weight, 2, 10, 1, rand.New(rand.NewSource(seed)))
		require.Len(t, tree.Nodes, 3, "seed %d", seed)
		assert.Equal(t, 1, tree.Nodes[0].Feature)
		assert.Equal(t, 5.5, tree.Nodes[0].Threshold)
	}
}

func TestDecisionTree_IgnoresZeroWeight(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []int{0, 0, 1, 1}
	weight := []float64{2, 0, 0, 1}

	tree := fitTree(x, y, weight, 2, 10, 1, rand.New(rand.NewSource(1)))
	require.Len(t, tree.Nodes, 3)
	assert.Equal(t, 1.5, tree.Nodes[0].Threshold)
	assert.Equal(t, []float64{1, 0}, tree.PredictProba([]float64{0}))
	assert.Equal(t, []float64{0, 1}, tree.PredictProba([]float64{3}))
}

func BenchmarkRandomForest_Fit(b *testing.B) {
	x, y := noisyData(1000, 1)
	params := defaultParams()
	for i := 0; i < b.N; i++ {
		forest := NewRandomForest(params)
		if err := forest.Fit(context.Background(), x, y); err != nil {
			b.Fatal(err)
		}
	}
}
