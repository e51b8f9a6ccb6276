package grove

//classHistogram is the sufficient statistic for classification splits:
//one bin per class. During a scan each sample crosses the threshold
//exactly once, with one add on the left histogram and one remove on the
//right one, which keeps the whole scan linear.
type classHistogram struct {
	bins []float64
	n    int
}

func newClassHistogram(nClasses int) *classHistogram {
	return &classHistogram{bins: make([]float64, nClasses)}
}

func (h *classHistogram) add(label int) {
	h.bins[label]++
	h.n++
}

func (h *classHistogram) remove(label int) {
	h.bins[label]--
	h.n--
}

//targetMoments is the sufficient statistic for regression splits: the
//sum and the sum of squares of the target vectors, both updated in O(1)
//per sample.
type targetMoments struct {
	sum   []float64
	sumSq []float64
	n     int
}

func newTargetMoments(nOutputs int) *targetMoments {
	return &targetMoments{
		sum:   make([]float64, nOutputs),
		sumSq: make([]float64, nOutputs),
	}
}

func (m *targetMoments) add(row []float64) {
	for j, v := range row {
		m.sum[j] += v
		m.sumSq[j] += v * v
	}
	m.n++
}

func (m *targetMoments) remove(row []float64) {
	for j, v := range row {
		m.sum[j] -= v
		m.sumSq[j] -= v * v
	}
	m.n--
}

//mean returns the mean target vector of the partition.
func (m *targetMoments) mean() []float64 {
	out := make([]float64, len(m.sum))
	for j, s := range m.sum {
		out[j] = s / float64(m.n)
	}
	return out
}
