package grove

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

//splitInfo describes the best threshold found for one feature column.
//valid stays false when no candidate boundary improved on the zero gain
//baseline, which is the designed no-split fallback rather than an error.
type splitInfo struct {
	valid         bool
	featureIndex  int
	threshold     float64
	gain          float64
	leftImpurity  float64
	rightImpurity float64
}

//nodeEvaluator computes impurities, split candidates and leaf payloads
//for one learning task over a fixed training set. One grower serves the
//classification, regression and boosting variants through it.
type nodeEvaluator interface {
	impurity(ids []int) float64
	pure(ids []int) bool
	bestSplit(ids []int, featureIndex int, wholeImpurity float64) splitInfo
	leafValue(ids []int) []float64
}

//sortByFeature returns a copy of ids ordered by ascending value of the
//selected feature column. Tie order among equal values is irrelevant:
//candidate boundaries only sit between distinct values.
func sortByFeature(x *mat.Dense, ids []int, featureIndex int) []int {
	order := make([]int, len(ids))
	copy(order, ids)
	sort.Slice(order, func(i, j int) bool {
		return x.At(order[i], featureIndex) < x.At(order[j], featureIndex)
	})
	return order
}

//classificationEvaluator drives the grower over integer coded class
//labels, with a gini or entropy impurity resolved at construction.
type classificationEvaluator struct {
	x        *mat.Dense
	y        []int
	nClasses int
	crit     criterion
}

func (e *classificationEvaluator) histogram(ids []int) []float64 {
	histogram := make([]float64, e.nClasses)
	for _, id := range ids {
		histogram[e.y[id]]++
	}
	return histogram
}

func (e *classificationEvaluator) impurity(ids []int) float64 {
	return classImpurity(e.crit, e.histogram(ids), float64(len(ids)))
}

func (e *classificationEvaluator) pure(ids []int) bool {
	first := e.y[ids[0]]
	for _, id := range ids[1:] {
		if e.y[id] != first {
			return false
		}
	}
	return true
}

func (e *classificationEvaluator) leafValue(ids []int) []float64 {
	probs := e.histogram(ids)
	n := float64(len(ids))
	for c := range probs {
		probs[c] /= n
	}
	return probs
}

//bestSplit scans the samples in feature order, moving one cluster of
//equal feature values at a time from the right histogram to the left
//one, and keeps the first threshold with the strictly largest gain.
func (e *classificationEvaluator) bestSplit(ids []int, featureIndex int, wholeImpurity float64) splitInfo {
	order := sortByFeature(e.x, ids, featureIndex)
	n := len(order)

	currEl := e.x.At(order[0], featureIndex)
	lastEl := e.x.At(order[n-1], featureIndex)
	best := splitInfo{featureIndex: featureIndex, threshold: currEl, rightImpurity: wholeImpurity}
	if currEl == lastEl {
		//a single unique value contributes no candidate boundary
		return best
	}

	left := newClassHistogram(e.nClasses)
	right := newClassHistogram(e.nClasses)
	for _, id := range order {
		right.add(e.y[id])
	}

	currPos, nextPos := 0, 0
	for currPos < n && currEl != lastEl {
		nextEl := e.x.At(order[nextPos], featureIndex)
		for nextPos < n && nextEl == currEl {
			left.add(e.y[order[nextPos]])
			right.remove(e.y[order[nextPos]])
			nextPos++
			if nextPos < n {
				nextEl = e.x.At(order[nextPos], featureIndex)
			}
		}
		lImpurity := classImpurity(e.crit, left.bins, float64(left.n))
		rImpurity := classImpurity(e.crit, right.bins, float64(right.n))
		gain := wholeImpurity - (float64(left.n)*lImpurity+float64(right.n)*rImpurity)/float64(n)
		if gain > best.gain {
			best.valid = true
			best.leftImpurity = lImpurity
			best.rightImpurity = rImpurity
			best.threshold = 0.5 * (currEl + nextEl)
			best.gain = gain
		}
		if nextPos == n {
			break
		}
		currPos = nextPos
		currEl = e.x.At(order[currPos], featureIndex)
	}
	return best
}

//regressionEvaluator drives the grower over real valued targets with
//one or more outputs, with an mse or mae impurity resolved at
//construction.
type regressionEvaluator struct {
	x        *mat.Dense
	y        *mat.Dense
	nOutputs int
	crit     criterion
}

func (e *regressionEvaluator) moments(ids []int) *targetMoments {
	m := newTargetMoments(e.nOutputs)
	for _, id := range ids {
		m.add(e.y.RawRowView(id))
	}
	return m
}

//partitionImpurity evaluates one partition. For mse the moments are
//enough; mae rescans the partition members.
func (e *regressionEvaluator) partitionImpurity(ids []int, m *targetMoments) float64 {
	if e.crit == criterionMAE {
		return maeImpurity(e.y, ids, m)
	}
	return mseImpurity(m)
}

func (e *regressionEvaluator) impurity(ids []int) float64 {
	return e.partitionImpurity(ids, e.moments(ids))
}

func (e *regressionEvaluator) pure(ids []int) bool {
	first := e.y.RawRowView(ids[0])
	for _, id := range ids[1:] {
		row := e.y.RawRowView(id)
		for j := range row {
			if row[j] != first[j] {
				return false
			}
		}
	}
	return true
}

func (e *regressionEvaluator) leafValue(ids []int) []float64 {
	return e.moments(ids).mean()
}

func (e *regressionEvaluator) bestSplit(ids []int, featureIndex int, wholeImpurity float64) splitInfo {
	order := sortByFeature(e.x, ids, featureIndex)
	n := len(order)

	currEl := e.x.At(order[0], featureIndex)
	lastEl := e.x.At(order[n-1], featureIndex)
	best := splitInfo{featureIndex: featureIndex, threshold: currEl, rightImpurity: wholeImpurity}
	if currEl == lastEl {
		return best
	}

	left := newTargetMoments(e.nOutputs)
	right := e.moments(order)

	currPos, nextPos := 0, 0
	for currPos < n && currEl != lastEl {
		nextEl := e.x.At(order[nextPos], featureIndex)
		for nextPos < n && nextEl == currEl {
			row := e.y.RawRowView(order[nextPos])
			left.add(row)
			right.remove(row)
			nextPos++
			if nextPos < n {
				nextEl = e.x.At(order[nextPos], featureIndex)
			}
		}
		lImpurity := e.partitionImpurity(order[:nextPos], left)
		rImpurity := e.partitionImpurity(order[nextPos:], right)
		gain := wholeImpurity - (float64(left.n)*lImpurity+float64(right.n)*rImpurity)/float64(n)
		if gain > best.gain {
			best.valid = true
			best.leftImpurity = lImpurity
			best.rightImpurity = rImpurity
			best.threshold = 0.5 * (currEl + nextEl)
			best.gain = gain
		}
		if nextPos == n {
			break
		}
		currPos = nextPos
		currEl = e.x.At(order[currPos], featureIndex)
	}
	return best
}
