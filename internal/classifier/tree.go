package classifier

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

const leaf = -1

// Node is a decision tree node. Leaves have Left == Right == -1 and carry
// the class distribution of their training samples in Value.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return n.Left == leaf
}

// DecisionTree is a fitted CART tree stored as a flat node slice; node 0 is
// the root
type DecisionTree struct {
	Nodes []Node `json:"nodes"`
}

type treeBuilder struct {
	x           [][]float64
	y           []int
	weight      []float64
	nClasses    int
	maxDepth    int
	maxFeatures int
	rng         *rand.Rand
	nodes       []Node
}

// fitTree grows a tree on the samples with non-zero weight. y holds class
// indices in [0, nClasses).
func fitTree(x [][]float64, y []int, weight []float64, nClasses, maxDepth, maxFeatures int, rng *rand.Rand) *DecisionTree {
	b := &treeBuilder{
		x:           x,
		y:           y,
		weight:      weight,
		nClasses:    nClasses,
		maxDepth:    maxDepth,
		maxFeatures: maxFeatures,
		rng:         rng,
	}

	samples := make([]int, 0, len(y))
	for i, w := range weight {
		if w > 0 {
			samples = append(samples, i)
		}
	}

	b.build(samples, 0)
	return &DecisionTree{Nodes: b.nodes}
}

// build appends the subtree for samples and returns its node index
func (b *treeBuilder) build(samples []int, depth int) int {
	counts := b.classCounts(samples)
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leaf, Left: leaf, Right: leaf})

	if depth >= b.maxDepth || len(samples) < 2 || isPure(counts) {
		b.nodes[id].Value = normalize(counts)
		return id
	}

	best, ok := b.bestSplit(samples, counts)
	if !ok {
		b.nodes[id].Value = normalize(counts)
		return id
	}

	var left, right []int
	for _, s := range samples {
		if b.x[s][best.feature] <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	b.nodes[id].Feature = best.feature
	b.nodes[id].Threshold = best.threshold
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

type candidate struct {
	feature   int
	threshold float64
	impurity  float64
}

// bestSplit looks at up to maxFeatures randomly chosen features that are not
// constant on samples. Constant features don't count toward the limit.
func (b *treeBuilder) bestSplit(samples []int, parent []float64) (candidate, bool) {
	nFeatures := len(b.x[samples[0]])
	features := b.rng.Perm(nFeatures)

	best := candidate{impurity: gini(parent) * floats.Sum(parent)}
	found := false
	visited := 0

	sorted := make([]int, len(samples))
	left := make([]float64, b.nClasses)
	right := make([]float64, b.nClasses)

	for _, f := range features {
		if visited >= b.maxFeatures {
			break
		}

		copy(sorted, samples)
		sort.Slice(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})
		if b.x[sorted[0]][f] == b.x[sorted[len(sorted)-1]][f] {
			continue
		}
		visited++

		for c := range left {
			left[c] = 0
			right[c] = parent[c]
		}

		for i := 0; i < len(sorted)-1; i++ {
			s := sorted[i]
			w := b.weight[s]
			left[b.y[s]] += w
			right[b.y[s]] -= w

			lo, hi := b.x[s][f], b.x[sorted[i+1]][f]
			if lo == hi {
				continue
			}

			impurity := gini(left)*floats.Sum(left) + gini(right)*floats.Sum(right)
			if impurity < best.impurity {
				threshold := lo + (hi-lo)/2
				if threshold == hi {
					threshold = lo
				}
				best = candidate{feature: f, threshold: threshold, impurity: impurity}
				found = true
			}
		}
	}

	return best, found
}

func (b *treeBuilder) classCounts(samples []int) []float64 {
	counts := make([]float64, b.nClasses)
	for _, s := range samples {
		counts[b.y[s]] += b.weight[s]
	}
	return counts
}

// PredictProba returns the class distribution of the leaf x falls into
func (t *DecisionTree) PredictProba(x []float64) []float64 {
	i := 0
	for !t.Nodes[i].IsLeaf() {
		n := &t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// Depth returns the length of the longest root to leaf path
func (t *DecisionTree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

func gini(counts []float64) float64 {
	total := floats.Sum(counts)
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func normalize(counts []float64) []float64 {
	total := floats.Sum(counts)
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}
