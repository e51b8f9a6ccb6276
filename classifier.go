package grove

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//DecisionTreeClassifier is a single tree classifier over integer class
//labels. Fit induces the tree, the remaining methods traverse it read
//only.
type DecisionTreeClassifier struct {
	Params             Params    `json:"params"`
	Classes            []int     `json:"classes"`
	Tree               *Tree     `json:"tree"`
	FeatureImportances []float64 `json:"feature_importances"`

	crit criterion
}

//NewDecisionTreeClassifier validates the parameters and resolves the
//impurity criterion; "gini" and "entropy" are recognized, anything else
//falls back to gini.
func NewDecisionTreeClassifier(params Params) (*DecisionTreeClassifier, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &DecisionTreeClassifier{
		Params: params,
		crit:   resolveClassifierCriterion(params.Criterion),
	}, nil
}

//Fit induces the tree over the feature matrix x and the label vector y.
//Labels may be arbitrary integers; they are encoded against the sorted
//set of distinct labels, which also fixes the column order of
//PredictProba.
func (clf *DecisionTreeClassifier) Fit(x *mat.Dense, y []int) error {
	h, w := x.Dims()
	if h == 0 {
		return errors.Wrap(ErrShape, "empty training set")
	}
	if len(y) != h {
		return errors.Wrapf(ErrShape, "x has %d rows but y has %d labels", h, len(y))
	}

	clf.Classes = uniqueSortedLabels(y)
	classIndex := make(map[int]int, len(clf.Classes))
	for c, label := range clf.Classes {
		classIndex[label] = c
	}
	encoded := make([]int, h)
	for p, label := range y {
		encoded[p] = classIndex[label]
	}

	eval := &classificationEvaluator{x: x, y: encoded, nClasses: len(clf.Classes), crit: clf.crit}
	clf.Tree = newGrower(x, eval, clf.Params).grow(allIDs(h), clf.Params.rng())
	clf.FeatureImportances = featureImportances(clf.Tree, w)
	return nil
}

//Apply returns the leaf id each row of x lands in.
func (clf *DecisionTreeClassifier) Apply(x *mat.Dense) []int {
	return clf.Tree.Apply(x)
}

//PredictProba returns the class membership probabilities of each row of
//x, one column per entry of Classes.
func (clf *DecisionTreeClassifier) PredictProba(x *mat.Dense) *mat.Dense {
	return clf.Tree.lookupValues(x, len(clf.Classes))
}

//Predict returns the predicted label of each row of x. Probability ties
//resolve to the lowest label.
func (clf *DecisionTreeClassifier) Predict(x *mat.Dense) []int {
	probs := clf.PredictProba(x)
	h, _ := probs.Dims()
	labels := make([]int, h)
	for p := 0; p < h; p++ {
		row := probs.RawRowView(p)
		argmax := 0
		for c := 1; c < len(row); c++ {
			if row[c] > row[argmax] {
				argmax = c
			}
		}
		labels[p] = clf.Classes[argmax]
	}
	return labels
}

//Save serializes the fitted classifier into an indented json file.
func (clf *DecisionTreeClassifier) Save(filename string) {
	saveJSON(filename, clf)
}

//LoadClassifier deserializes a classifier saved by Save. The criterion
//tag is resolved again from the stored parameters.
func LoadClassifier(filename string) *DecisionTreeClassifier {
	clf := &DecisionTreeClassifier{}
	loadJSON(filename, clf)
	clf.crit = resolveClassifierCriterion(clf.Params.Criterion)
	return clf
}

//uniqueSortedLabels returns the distinct labels of y in ascending order.
func uniqueSortedLabels(y []int) []int {
	seen := make(map[int]struct{}, len(y))
	labels := make([]int, 0)
	for _, label := range y {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}
	sort.Ints(labels)
	return labels
}
