package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Forest defaults
const (
	DefaultTrees       = 100
	DefaultSeed        = 42
	DefaultMinLeafSize = 1

	minImpurityDecrease = 1e-12
)

// ForestTrainer fits a bagged ensemble of CART trees split on Gini impurity.
// Each tree sees a bootstrap sample and a random subset of the features at
// every split.
type ForestTrainer struct {
	Trees       int
	MaxDepth    int // 0 grows until leaves are pure
	MinLeafSize int
	Seed        int64 // 0 seeds from the clock
}

// Node is one node of a flattened decision tree. Leaves carry the fraction of
// positive samples that reached them.
type Node struct {
	Leaf        bool    `msgpack:"leaf"`
	Feature     int     `msgpack:"feature"`
	Threshold   float64 `msgpack:"threshold"`
	Left        int     `msgpack:"left"`
	Right       int     `msgpack:"right"`
	Probability float64 `msgpack:"probability"`
}

// Tree is a decision tree stored as a node slice rooted at index 0.
type Tree struct {
	Nodes []Node `msgpack:"nodes"`
}

// Forest is a fitted ensemble. Its probability is the mean leaf probability
// across trees.
type Forest struct {
	Features int    `msgpack:"features"`
	Trees    []Tree `msgpack:"trees"`
}

// Fit grows the forest.
func (t *ForestTrainer) Fit(features [][]float64, labels []float64) (Model, error) {
	if err := validateTrainingSet(features, labels); err != nil {
		return nil, err
	}

	trees := t.Trees
	if trees <= 0 {
		trees = DefaultTrees
	}
	minLeaf := t.MinLeafSize
	if minLeaf <= 0 {
		minLeaf = DefaultMinLeafSize
	}
	seed := t.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	width := len(features[0])
	g := &grower{
		x:           features,
		y:           labels,
		rng:         rand.New(rand.NewSource(seed)),
		maxDepth:    t.MaxDepth,
		minLeaf:     minLeaf,
		maxFeatures: maxFeatures(width),
		width:       width,
	}

	forest := &Forest{Features: width, Trees: make([]Tree, trees)}
	for i := range forest.Trees {
		forest.Trees[i] = g.grow(g.bootstrap())
	}
	return forest, nil
}

// PredictProbability averages the leaf probabilities of every tree.
func (f *Forest) PredictProbability(features []float64) (float64, error) {
	if len(features) != f.Features {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(features), f.Features)
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("forest has no trees")
	}

	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].predict(features)
	}
	return sum / float64(len(f.Trees)), nil
}

func (t *Tree) predict(x []float64) float64 {
	n := t.Nodes[0]
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Probability
}

// maxFeatures is the square root of the feature count, at least one.
func maxFeatures(width int) int {
	m := int(math.Sqrt(float64(width)))
	if m < 1 {
		m = 1
	}
	return m
}

type grower struct {
	x           [][]float64
	y           []float64
	rng         *rand.Rand
	maxDepth    int
	minLeaf     int
	maxFeatures int
	width       int
}

func (g *grower) bootstrap() []int {
	n := len(g.x)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = g.rng.Intn(n)
	}
	return sample
}

func (g *grower) grow(sample []int) Tree {
	tree := Tree{}
	g.split(&tree, sample, 0)
	return tree
}

// split appends the node for idx to tree and returns its index.
func (g *grower) split(tree *Tree, idx []int, depth int) int {
	pos := g.positives(idx)
	self := len(tree.Nodes)
	tree.Nodes = append(tree.Nodes, Node{Leaf: true, Probability: pos / float64(len(idx))})

	if pos == 0 || pos == float64(len(idx)) {
		return self
	}
	if g.maxDepth > 0 && depth >= g.maxDepth {
		return self
	}
	if len(idx) < 2*g.minLeaf {
		return self
	}

	feature, threshold, ok := g.bestSplit(idx, pos)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if g.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := g.split(tree, left, depth+1)
	r := g.split(tree, right, depth+1)
	tree.Nodes[self] = Node{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return self
}

// bestSplit draws features in random order and keeps the best Gini split over
// the first maxFeatures features whose split lowers the impurity.
func (g *grower) bestSplit(idx []int, pos float64) (int, float64, bool) {
	parent := gini(pos, float64(len(idx)))
	bestScore := parent - minImpurityDecrease
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(idx))
	examined := 0
	for _, f := range g.rng.Perm(g.width) {
		if examined >= g.maxFeatures {
			break
		}
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return g.x[sorted[a]][f] < g.x[sorted[b]][f] })

		score, threshold, ok := g.scanFeature(sorted, f, pos)
		if !ok || score >= parent-minImpurityDecrease {
			continue
		}
		examined++
		if score < bestScore {
			bestScore, bestFeature, bestThreshold = score, f, threshold
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// scanFeature returns the lowest weighted child impurity over every threshold
// between distinct values of feature f.
func (g *grower) scanFeature(sorted []int, f int, pos float64) (float64, float64, bool) {
	n := float64(len(sorted))
	best, threshold, found := math.Inf(1), 0.0, false
	leftPos := 0.0

	for i := 1; i < len(sorted); i++ {
		leftPos += g.y[sorted[i-1]]
		lo, hi := g.x[sorted[i-1]][f], g.x[sorted[i]][f]
		if lo == hi {
			continue
		}
		if i < g.minLeaf || len(sorted)-i < g.minLeaf {
			continue
		}
		nl, nr := float64(i), n-float64(i)
		score := (nl*gini(leftPos, nl) + nr*gini(pos-leftPos, nr)) / n
		if score < best {
			best, threshold, found = score, (lo+hi)/2, true
		}
	}
	return best, threshold, found
}

func (g *grower) positives(idx []int) float64 {
	var pos float64
	for _, i := range idx {
		pos += g.y[i]
	}
	return pos
}

func gini(pos, n float64) float64 {
	if n == 0 {
		return 0
	}
	p := pos / n
	return 1 - p*p - (1-p)*(1-p)
}
