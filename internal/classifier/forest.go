package classifier

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"stockanalytica/internal/errors"
)

// Params are the forest hyperparameters
type Params struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"max_depth"`
	Seed     int64 `json:"seed"`
	// MaxFeatures is the number of candidate features per split; 0 means
	// max(1, floor(sqrt(features)))
	MaxFeatures int `json:"max_features"`
	// Workers bounds concurrent tree fitting; 0 means GOMAXPROCS
	Workers int `json:"-"`
}

// RandomForest is a bagged ensemble of CART classifiers
type RandomForest struct {
	Params   Params          `json:"params"`
	Classes  []int           `json:"classes"`
	Features int             `json:"features"`
	Trees    []*DecisionTree `json:"trees"`
}

// NewRandomForest creates an unfitted forest
func NewRandomForest(params Params) *RandomForest {
	return &RandomForest{Params: params}
}

// Fit grows the forest on x (one row per sample) and labels y. Trees are
// fitted concurrently; each tree's randomness comes from a seed drawn in
// order from Params.Seed before any work starts.
func (f *RandomForest) Fit(ctx context.Context, x [][]float64, y []int) error {
	if err := validateTrainingData(x, y); err != nil {
		return err
	}
	if f.Params.Trees < 1 {
		return errors.NewAppValidationError("forest needs at least one tree")
	}
	if f.Params.MaxDepth < 1 {
		return errors.NewAppValidationError("max depth must be positive")
	}

	f.Features = len(x[0])
	f.Classes = uniqueSorted(y)

	classIndex := make(map[int]int, len(f.Classes))
	for i, c := range f.Classes {
		classIndex[c] = i
	}
	encoded := make([]int, len(y))
	for i, label := range y {
		encoded[i] = classIndex[label]
	}

	maxFeatures := f.Params.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(f.Features))))
	}
	maxFeatures = min(maxFeatures, f.Features)

	workers := f.Params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	master := rand.New(rand.NewSource(f.Params.Seed))
	seeds := make([]int64, f.Params.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*DecisionTree, f.Params.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[i]))
			weight := bootstrapWeights(len(y), rng)
			trees[i] = fitTree(x, encoded, weight, len(f.Classes), f.Params.MaxDepth, maxFeatures, rng)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	f.Trees = trees
	return nil
}

// bootstrapWeights draws n samples with replacement and returns how often
// each index was drawn
func bootstrapWeights(n int, rng *rand.Rand) []float64 {
	weight := make([]float64, n)
	for i := 0; i < n; i++ {
		weight[rng.Intn(n)]++
	}
	return weight
}

// PredictProba returns, per row, the mean of the trees' class distributions
// in Classes order
func (f *RandomForest) PredictProba(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		proba := make([]float64, len(f.Classes))
		for _, tree := range f.Trees {
			for c, p := range tree.PredictProba(row) {
				proba[c] += p
			}
		}
		for c := range proba {
			proba[c] /= float64(len(f.Trees))
		}
		out[i] = proba
	}
	return out
}

// Predict returns the most probable class per row. Ties go to the smaller
// class label.
func (f *RandomForest) Predict(x [][]float64) []int {
	proba := f.PredictProba(x)
	out := make([]int, len(x))
	for i, p := range proba {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = f.Classes[best]
	}
	return out
}

// IsFitted reports whether the forest holds trees
func (f *RandomForest) IsFitted() bool {
	return len(f.Trees) > 0 && len(f.Classes) > 0
}

func validateTrainingData(x [][]float64, y []int) error {
	if len(x) == 0 {
		return errors.NewInvalidDatasetError("no training samples")
	}
	if len(x) != len(y) {
		return errors.NewInvalidDatasetError(fmt.Sprintf("%d feature rows but %d labels", len(x), len(y)))
	}
	width := len(x[0])
	if width == 0 {
		return errors.NewInvalidDatasetError("no feature columns")
	}
	for i, row := range x {
		if len(row) != width {
			return errors.NewInvalidDatasetError(fmt.Sprintf("row %d has %d features, expected %d", i, len(row), width))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.NewInvalidDatasetError(fmt.Sprintf("row %d feature %d is not a finite number", i, j))
			}
		}
	}
	return nil
}

func uniqueSorted(values []int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
