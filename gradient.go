package grove

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//gradientEvaluator drives the grower for boosting trees. The caller
//supplies per sample first and second order loss derivatives; splits
//maximize the regularized Newton gain and leaves carry a single damped
//Newton step weight.
type gradientEvaluator struct {
	x         *mat.Dense
	y         []float64
	gradHess  *tensor.Dense
	lambda    float64
	shrinkage float64
}

//newGradHessCache packs the derivative vectors into an (n, 2) tensor so
//each sample's pair sits together during the scans.
func newGradHessCache(gradient, hessian []float64) *tensor.Dense {
	n := len(gradient)
	cache := tensor.New(tensor.WithShape(n, 2), tensor.Of(tensor.Float64))
	for p := 0; p < n; p++ {
		HandleError(cache.SetAt(gradient[p], p, 0))
		HandleError(cache.SetAt(hessian[p], p, 1))
	}
	return cache
}

func (e *gradientEvaluator) gradHessAt(id int) (grad, hess float64) {
	g, err := e.gradHess.At(id, 0)
	HandleError(err)
	h, err := e.gradHess.At(id, 1)
	HandleError(err)
	return g.(float64), h.(float64)
}

func (e *gradientEvaluator) sums(ids []int) (sumGrad, sumHess float64) {
	for _, id := range ids {
		grad, hess := e.gradHessAt(id)
		sumGrad += grad
		sumHess += hess
	}
	return sumGrad, sumHess
}

func (e *gradientEvaluator) impurity(ids []int) float64 {
	sumGrad, sumHess := e.sums(ids)
	return gradientImpurity(sumGrad, sumHess, e.lambda, len(ids))
}

func (e *gradientEvaluator) pure(ids []int) bool {
	first := e.y[ids[0]]
	for _, id := range ids[1:] {
		if e.y[id] != first {
			return false
		}
	}
	return true
}

func (e *gradientEvaluator) leafValue(ids []int) []float64 {
	sumGrad, sumHess := e.sums(ids)
	return []float64{-sumGrad / (sumHess + e.lambda) * e.shrinkage}
}

//bestSplit scans the samples in feature order accumulating gradient and
//hessian sums on the left side. The gain of a boundary is the sum of
//the children's regularized Newton terms minus the parent's.
func (e *gradientEvaluator) bestSplit(ids []int, featureIndex int, wholeImpurity float64) splitInfo {
	order := sortByFeature(e.x, ids, featureIndex)
	n := len(order)

	currEl := e.x.At(order[0], featureIndex)
	lastEl := e.x.At(order[n-1], featureIndex)
	best := splitInfo{featureIndex: featureIndex, threshold: currEl, rightImpurity: wholeImpurity}
	if currEl == lastEl {
		return best
	}

	sumGrad, sumHess := e.sums(order)
	wholeTerm := sumGrad * sumGrad / (sumHess + e.lambda)

	lGrad, lHess := 0.0, 0.0
	currPos, nextPos := 0, 0
	for currPos < n && currEl != lastEl {
		nextEl := e.x.At(order[nextPos], featureIndex)
		for nextPos < n && nextEl == currEl {
			grad, hess := e.gradHessAt(order[nextPos])
			lGrad += grad
			lHess += hess
			nextPos++
			if nextPos < n {
				nextEl = e.x.At(order[nextPos], featureIndex)
			}
		}
		rGrad, rHess := sumGrad-lGrad, sumHess-lHess
		lTerm := lGrad * lGrad / (lHess + e.lambda)
		rTerm := rGrad * rGrad / (rHess + e.lambda)
		gain := lTerm + rTerm - wholeTerm
		if gain > best.gain {
			best.valid = true
			best.leftImpurity = -lTerm / float64(nextPos)
			best.rightImpurity = -rTerm / float64(n-nextPos)
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

//GradientTreeRegressor is one boosting stage tree. It is fitted against
//externally supplied loss derivatives instead of raw targets, so an
//ensemble loop can drive it with any twice differentiable loss.
type GradientTreeRegressor struct {
	Params             GradientParams `json:"params"`
	Tree               *Tree          `json:"tree"`
	FeatureImportances []float64      `json:"feature_importances"`
}

//NewGradientTreeRegressor validates the parameters. The criterion name
//is ignored for boosting trees: the regularized Newton gain is the only
//split objective.
func NewGradientTreeRegressor(params GradientParams) (*GradientTreeRegressor, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &GradientTreeRegressor{Params: params}, nil
}

//Fit induces the tree over the feature matrix x, the target vector y
//and per sample gradient and hessian vectors of the ensemble loss.
func (gtr *GradientTreeRegressor) Fit(x *mat.Dense, y, gradient, hessian []float64) error {
	h, w := x.Dims()
	if h == 0 {
		return errors.Wrap(ErrShape, "empty training set")
	}
	if len(y) != h {
		return errors.Wrapf(ErrShape, "x has %d rows but y has %d targets", h, len(y))
	}
	if len(gradient) != h || len(hessian) != h {
		return errors.Wrapf(ErrShape, "x has %d rows but gradient has %d entries and hessian has %d",
			h, len(gradient), len(hessian))
	}

	eval := &gradientEvaluator{
		x:         x,
		y:         y,
		gradHess:  newGradHessCache(gradient, hessian),
		lambda:    gtr.Params.RegLambda,
		shrinkage: gtr.Params.ShrinkageRate,
	}
	gtr.Tree = newGrower(x, eval, gtr.Params.Params).grow(allIDs(h), gtr.Params.rng())
	gtr.FeatureImportances = featureImportances(gtr.Tree, w)
	return nil
}

//Apply returns the leaf id each row of x lands in.
func (gtr *GradientTreeRegressor) Apply(x *mat.Dense) []int {
	return gtr.Tree.Apply(x)
}

//Predict returns the leaf weight of each row of x. An ensemble adds
//these to its running prediction.
func (gtr *GradientTreeRegressor) Predict(x *mat.Dense) []float64 {
	h, _ := x.Dims()
	out := make([]float64, h)
	for p, leafID := range gtr.Tree.Apply(x) {
		out[p] = gtr.Tree.LeafNodes[leafID].Value[0]
	}
	return out
}

//ScaleLeafWeights multiplies every leaf weight by factor, for ensembles
//that re-damp stages after fitting.
func (gtr *GradientTreeRegressor) ScaleLeafWeights(factor float64) {
	for i := range gtr.Tree.LeafNodes {
		for j := range gtr.Tree.LeafNodes[i].Value {
			gtr.Tree.LeafNodes[i].Value[j] *= factor
		}
	}
}

//Save serializes the fitted tree into an indented json file.
func (gtr *GradientTreeRegressor) Save(filename string) {
	saveJSON(filename, gtr)
}

//LoadGradientTree deserializes a tree saved by Save.
func LoadGradientTree(filename string) *GradientTreeRegressor {
	gtr := &GradientTreeRegressor{}
	loadJSON(filename, gtr)
	return gtr
}
