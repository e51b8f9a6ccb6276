package grove

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//giniImpurity computes 1 - sum((c/n)^2) over a class histogram.
func giniImpurity(histogram []float64, n float64) float64 {
	gini := 0.0
	for _, count := range histogram {
		el := count / n
		gini += el * el
	}
	return 1.0 - gini
}

//entropyImpurity computes -sum((c/n)*ln(c/n+1)) over a class histogram.
//The shifted logarithm is not the textbook Shannon entropy; it keeps
//empty bins finite and orders class mixtures the same way, with pure
//nodes scoring lowest.
func entropyImpurity(histogram []float64, n float64) float64 {
	entropy := 0.0
	for _, count := range histogram {
		el := count / n
		entropy += el * math.Log(el+1.0)
	}
	return -entropy
}

//classImpurity dispatches on the resolved classification criterion.
func classImpurity(crit criterion, histogram []float64, n float64) float64 {
	if crit == criterionEntropy {
		return entropyImpurity(histogram, n)
	}
	return giniImpurity(histogram, n)
}

//mseImpurity computes the mean over samples of the squared deviation
//from the mean target vector, averaged over outputs. The running sum
//and sum of squares are enough, no rescan of the partition is needed.
func mseImpurity(m *targetMoments) float64 {
	n := float64(m.n)
	total := 0.0
	for j := range m.sum {
		mean := m.sum[j] / n
		total += m.sumSq[j]/n - mean*mean
	}
	return total / float64(len(m.sum))
}

//maeImpurity computes the mean over samples of the absolute deviation
//from the mean target vector, averaged over outputs. Unlike mse it is
//not derivable from running moments and rescans the partition members.
func maeImpurity(y *mat.Dense, ids []int, m *targetMoments) float64 {
	n := float64(len(ids))
	d := len(m.sum)
	total := 0.0
	for _, id := range ids {
		row := y.RawRowView(id)
		for j := 0; j < d; j++ {
			total += math.Abs(row[j] - m.sum[j]/n)
		}
	}
	return total / (n * float64(d))
}

//gradientImpurity scores a partition by its regularized Newton term,
//negated and divided by the partition size. With this convention purer
//partitions score lower and the sample weighted impurity of children
//never exceeds the parent's, exactly as for gini and mse.
func gradientImpurity(sumGrad, sumHess, lambda float64, n int) float64 {
	return -(sumGrad * sumGrad / (sumHess + lambda)) / float64(n)
}
