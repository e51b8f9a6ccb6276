package grove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestClassificationBestSplit(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 1, 2, 2})
	eval := &classificationEvaluator{x: x, y: []int{0, 0, 1, 1}, nClasses: 2, crit: criterionGini}
	ids := allIDs(4)

	split := eval.bestSplit(ids, 0, eval.impurity(ids))
	require.True(t, split.valid)
	assert.InDelta(t, 1.5, split.threshold, 1e-12)
	assert.InDelta(t, 0.5, split.gain, 1e-12)
	assert.InDelta(t, 0.0, split.leftImpurity, 1e-12)
	assert.InDelta(t, 0.0, split.rightImpurity, 1e-12)
}

func TestBestSplitConstantFeature(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{3, 3, 3, 3})
	eval := &classificationEvaluator{x: x, y: []int{0, 0, 1, 1}, nClasses: 2, crit: criterionGini}
	ids := allIDs(4)

	split := eval.bestSplit(ids, 0, eval.impurity(ids))
	if split.valid {
		t.Error("a single unique feature value should give no split")
	}
}

//equal gains resolve to the first boundary in feature order
func TestBestSplitTieKeepsFirst(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	eval := &classificationEvaluator{x: x, y: []int{0, 1, 1, 0}, nClasses: 2, crit: criterionGini}
	ids := allIDs(4)

	split := eval.bestSplit(ids, 0, eval.impurity(ids))
	require.True(t, split.valid)
	assert.InDelta(t, 1.5, split.threshold, 1e-12)
	assert.InDelta(t, 1.0/6.0, split.gain, 1e-12)
}

func TestRegressionBestSplit(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	eval := &regressionEvaluator{x: x, y: y, nOutputs: 1, crit: criterionMSE}
	ids := allIDs(4)

	split := eval.bestSplit(ids, 0, eval.impurity(ids))
	require.True(t, split.valid)
	assert.InDelta(t, 2.5, split.threshold, 1e-12)
	assert.InDelta(t, 1.0, split.gain, 1e-12)
	assert.InDelta(t, 0.25, split.leftImpurity, 1e-12)
	assert.InDelta(t, 0.25, split.rightImpurity, 1e-12)
}

func TestRegressionBestSplitMae(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})
	eval := &regressionEvaluator{x: x, y: y, nOutputs: 1, crit: criterionMAE}
	ids := allIDs(4)

	split := eval.bestSplit(ids, 0, eval.impurity(ids))
	require.True(t, split.valid)
	assert.InDelta(t, 2.5, split.threshold, 1e-12)
	assert.InDelta(t, 0.0, split.leftImpurity, 1e-12)
	assert.InDelta(t, 0.0, split.rightImpurity, 1e-12)
}

func TestPartitionIDs(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{5, 1, 4, 2, 6, 3})
	ids := allIDs(6)

	left, right := partitionIDs(x, ids, 0, 3.5)
	assert.Len(t, left, 3)
	assert.Len(t, right, 3)
	for _, id := range left {
		if x.At(id, 0) > 3.5 {
			t.Errorf("sample %d with value %g landed left of 3.5", id, x.At(id, 0))
		}
	}
	for _, id := range right {
		if x.At(id, 0) <= 3.5 {
			t.Errorf("sample %d with value %g landed right of 3.5", id, x.At(id, 0))
		}
	}
}

func TestSortByFeatureLeavesInputIntact(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{4, 1, 3, 2})
	ids := []int{0, 1, 2, 3}

	order := sortByFeature(x, ids, 0)
	assert.Equal(t, []int{1, 3, 2, 0}, order)
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
}
