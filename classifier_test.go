package grove

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func intPtr(v int) *int {
	return &v
}

func seedPtr(v int64) *int64 {
	return &v
}

//twoBlobs builds a training set where the first feature separates the
//classes exactly and the second carries no signal.
func twoBlobs() (*mat.Dense, []int) {
	h := 20
	raw := make([]float64, 2*h)
	labels := make([]int, h)
	for p := 0; p < h/2; p++ {
		raw[2*p] = -1
		raw[2*p+1] = float64(p)
		labels[p] = 0
	}
	for p := h / 2; p < h; p++ {
		raw[2*p] = 1
		raw[2*p+1] = float64(p - h/2)
		labels[p] = 1
	}
	return mat.NewDense(h, 2, raw), labels
}

func TestClassifierSeparableBlobs(t *testing.T) {
	x, y := twoBlobs()
	clf, err := NewDecisionTreeClassifier(Params{})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	require.Len(t, clf.Tree.TreeNodes, 3)
	root := clf.Tree.TreeNodes[0]
	assert.Equal(t, 0, root.FeatureIndex)
	assert.InDelta(t, 0.0, root.Threshold, 1e-12)
	assert.Equal(t, 2, clf.Tree.NLeaves())

	assert.Equal(t, y, clf.Predict(x))
}

func TestClassifierPureTargetsGiveSingleLeaf(t *testing.T) {
	x := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := []int{7, 7, 7, 7, 7}
	clf, err := NewDecisionTreeClassifier(Params{})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	assert.Equal(t, 1, clf.Tree.NLeaves())
	assert.Equal(t, []int{7, 7, 7, 7, 7}, clf.Predict(x))
}

func TestClassifierDeterministicWithSeed(t *testing.T) {
	x, y := twoBlobs()
	params := Params{MaxFeatures: intPtr(1), Seed: seedPtr(42)}

	clfA, err := NewDecisionTreeClassifier(params)
	require.NoError(t, err)
	require.NoError(t, clfA.Fit(x, y))

	clfB, err := NewDecisionTreeClassifier(params)
	require.NoError(t, err)
	require.NoError(t, clfB.Fit(x, y))

	assert.Equal(t, clfA.Tree, clfB.Tree)
}

//with three one point classes and a leaf size floor of 150 the grower
//must keep one boundary and merge the two right classes into one leaf
func TestClassifierMinSamplesLeafMerges(t *testing.T) {
	h := 300
	raw := make([]float64, h)
	labels := make([]int, h)
	for p := 0; p < h; p++ {
		raw[p] = float64(p / 100)
		labels[p] = p / 100
	}
	x := mat.NewDense(h, 1, raw)

	clf, err := NewDecisionTreeClassifier(Params{MinSamplesLeaf: 150})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, labels))

	root := clf.Tree.TreeNodes[0]
	require.False(t, root.IsLeaf())
	assert.Equal(t, 2, clf.Tree.NLeaves())

	left := clf.Tree.TreeNodes[root.LeftIndex]
	right := clf.Tree.TreeNodes[root.RightIndex]
	require.True(t, left.IsLeaf())
	require.True(t, right.IsLeaf())
	assert.Equal(t, 100, left.NSamples)
	assert.Equal(t, 200, right.NSamples)
}

func TestClassifierProbabilitiesNormalized(t *testing.T) {
	x, y := twoBlobs()
	clf, err := NewDecisionTreeClassifier(Params{MaxDepth: intPtr(1)})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	probs := clf.PredictProba(x)
	h, w := probs.Dims()
	assert.Equal(t, len(clf.Classes), w)
	for p := 0; p < h; p++ {
		rowSum := 0.0
		for _, v := range probs.RawRowView(p) {
			if v < 0 {
				t.Errorf("negative probability %g in row %d", v, p)
			}
			rowSum += v
		}
		assert.InDelta(t, 1.0, rowSum, 1e-12)
	}
}

//every leaf id must be dense in [0, NLeaves) and reachable from the
//training data that produced it
func TestClassifierLeafIDsDense(t *testing.T) {
	x, y := twoBlobs()
	clf, err := NewDecisionTreeClassifier(Params{})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	seen := make(map[int]bool)
	for _, leafID := range clf.Apply(x) {
		require.GreaterOrEqual(t, leafID, 0)
		require.Less(t, leafID, clf.Tree.NLeaves())
		seen[leafID] = true
	}
	assert.Len(t, seen, clf.Tree.NLeaves())
	for i, leaf := range clf.Tree.LeafNodes {
		assert.Equal(t, i, leaf.LeafNodeID)
	}
}

func TestClassifierImpurityDecreases(t *testing.T) {
	x, y := twoBlobs()
	clf, err := NewDecisionTreeClassifier(Params{})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	for _, node := range clf.Tree.TreeNodes {
		if node.IsLeaf() {
			continue
		}
		left := clf.Tree.TreeNodes[node.LeftIndex]
		right := clf.Tree.TreeNodes[node.RightIndex]
		weighted := float64(left.NSamples)*left.Impurity + float64(right.NSamples)*right.Impurity
		if weighted > float64(node.NSamples)*node.Impurity+1e-9 {
			t.Errorf("children impurity %g exceeds parent %g", weighted, float64(node.NSamples)*node.Impurity)
		}
	}
}

func TestClassifierMaxDepthBound(t *testing.T) {
	x, y := twoBlobs()
	clf, err := NewDecisionTreeClassifier(Params{MaxDepth: intPtr(1)})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	for _, node := range clf.Tree.TreeNodes {
		assert.LessOrEqual(t, node.Depth, 1)
		if !node.IsLeaf() {
			assert.Less(t, node.Depth, 1)
		}
	}
}

func TestClassifierMaxLeafNodesBound(t *testing.T) {
	h := 64
	raw := make([]float64, h)
	labels := make([]int, h)
	for p := 0; p < h; p++ {
		raw[p] = float64(p)
		labels[p] = p % 4
	}
	x := mat.NewDense(h, 1, raw)

	clf, err := NewDecisionTreeClassifier(Params{MaxLeafNodes: intPtr(5)})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, labels))

	assert.LessOrEqual(t, clf.Tree.NLeaves(), 5)
	for _, node := range clf.Tree.TreeNodes {
		if !node.IsLeaf() {
			assert.NotEqual(t, -1, node.LeftIndex)
			assert.NotEqual(t, -1, node.RightIndex)
		}
	}
}

func TestClassifierShapeMismatch(t *testing.T) {
	x := mat.NewDense(4, 2, nil)
	clf, err := NewDecisionTreeClassifier(Params{})
	require.NoError(t, err)

	err = clf.Fit(x, []int{0, 1, 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestClassifierEntropyCriterion(t *testing.T) {
	x, y := twoBlobs()
	clf, err := NewDecisionTreeClassifier(Params{Criterion: "entropy"})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	assert.Equal(t, y, clf.Predict(x))
}

func TestClassifierArbitraryLabels(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := []int{-5, -5, -5, 40, 40, 40}
	clf, err := NewDecisionTreeClassifier(Params{})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, y))

	assert.Equal(t, []int{-5, 40}, clf.Classes)
	assert.Equal(t, y, clf.Predict(x))
}
