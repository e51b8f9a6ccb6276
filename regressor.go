package grove

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//DecisionTreeRegressor is a single tree regressor over real valued
//targets with one or more output columns.
type DecisionTreeRegressor struct {
	Params             Params    `json:"params"`
	NOutputs           int       `json:"n_outputs"`
	Tree               *Tree     `json:"tree"`
	FeatureImportances []float64 `json:"feature_importances"`

	crit criterion
}

//NewDecisionTreeRegressor validates the parameters and resolves the
//impurity criterion; "mse" and "mae" are recognized, anything else
//falls back to mse.
func NewDecisionTreeRegressor(params Params) (*DecisionTreeRegressor, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &DecisionTreeRegressor{
		Params: params,
		crit:   resolveRegressorCriterion(params.Criterion),
	}, nil
}

//Fit induces the tree over the feature matrix x and the target matrix
//y. The number of outputs is taken from the width of y.
func (reg *DecisionTreeRegressor) Fit(x, y *mat.Dense) error {
	h, w := x.Dims()
	if h == 0 {
		return errors.Wrap(ErrShape, "empty training set")
	}
	targetH, nOutputs := y.Dims()
	if targetH != h {
		return errors.Wrapf(ErrShape, "x has %d rows but y has %d", h, targetH)
	}

	reg.NOutputs = nOutputs
	eval := &regressionEvaluator{x: x, y: y, nOutputs: nOutputs, crit: reg.crit}
	reg.Tree = newGrower(x, eval, reg.Params).grow(allIDs(h), reg.Params.rng())
	reg.FeatureImportances = featureImportances(reg.Tree, w)
	return nil
}

//Apply returns the leaf id each row of x lands in.
func (reg *DecisionTreeRegressor) Apply(x *mat.Dense) []int {
	return reg.Tree.Apply(x)
}

//Predict returns the mean target vector of the leaf each row of x lands
//in, one output per column.
func (reg *DecisionTreeRegressor) Predict(x *mat.Dense) *mat.Dense {
	return reg.Tree.lookupValues(x, reg.NOutputs)
}

//Save serializes the fitted regressor into an indented json file.
func (reg *DecisionTreeRegressor) Save(filename string) {
	saveJSON(filename, reg)
}

//LoadRegressor deserializes a regressor saved by Save.
func LoadRegressor(filename string) *DecisionTreeRegressor {
	reg := &DecisionTreeRegressor{}
	loadJSON(filename, reg)
	reg.crit = resolveRegressorCriterion(reg.Params.Criterion)
	return reg
}
