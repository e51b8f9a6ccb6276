package grove

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

//criterion is a disorder measure resolved once at construction time, so
//the split scans dispatch on a tag instead of comparing strings per node.
type criterion int

const (
	criterionGini criterion = iota
	criterionEntropy
	criterionMSE
	criterionMAE
)

//resolveClassifierCriterion maps a criterion name to its tag. Unknown
//names silently fall back to gini.
func resolveClassifierCriterion(name string) criterion {
	if name == "entropy" {
		return criterionEntropy
	}
	return criterionGini
}

//resolveRegressorCriterion maps a criterion name to its tag. Unknown
//names silently fall back to mse.
func resolveRegressorCriterion(name string) criterion {
	if name == "mae" {
		return criterionMAE
	}
	return criterionMSE
}

//Params collects the construction arguments shared by all tree models.
//Pointer fields are optional: nil MaxDepth and MaxLeafNodes mean
//unlimited, nil MaxFeatures means all features are searched at every
//node, nil Seed draws a seed from the wall clock.
type Params struct {
	Criterion      string `json:"criterion"`
	MaxDepth       *int   `json:"max_depth"`
	MaxLeafNodes   *int   `json:"max_leaf_nodes"`
	MinSamplesLeaf int    `json:"min_samples_leaf"`
	MaxFeatures    *int   `json:"max_features"`
	Seed           *int64 `json:"seed"`
}

//validate checks the common parameters and fills in defaults. It runs
//before any fitting work so a bad configuration fails fast.
func (p *Params) validate() error {
	if p.MaxDepth != nil && *p.MaxDepth < 1 {
		return errors.Wrapf(ErrParameter, "max_depth must be positive, got %d", *p.MaxDepth)
	}
	if p.MaxLeafNodes != nil && *p.MaxLeafNodes < 1 {
		return errors.Wrapf(ErrParameter, "max_leaf_nodes must be positive, got %d", *p.MaxLeafNodes)
	}
	if p.MaxFeatures != nil && *p.MaxFeatures < 1 {
		return errors.Wrapf(ErrParameter, "max_features must be positive, got %d", *p.MaxFeatures)
	}
	if p.MinSamplesLeaf < 0 {
		return errors.Wrapf(ErrParameter, "min_samples_leaf must be at least 1, got %d", p.MinSamplesLeaf)
	}
	if p.MinSamplesLeaf == 0 {
		p.MinSamplesLeaf = 1
	}
	return nil
}

//rng builds the root generator for one Fit call. Every recursive branch
//derives its own state from it, so fits never share a generator.
func (p Params) rng() *rand.Rand {
	if p.Seed != nil {
		return rand.New(rand.NewSource(*p.Seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

//GradientParams extends Params for the boosting tree variant.
type GradientParams struct {
	Params
	RegLambda     float64 `json:"reg_lambda"`
	ShrinkageRate float64 `json:"shrinkage_rate"`
}

//validate checks the boosting specific parameters on top of the common
//ones. A zero ShrinkageRate means no damping and defaults to 1.
func (p *GradientParams) validate() error {
	if p.RegLambda < 0 {
		return errors.Wrapf(ErrParameter, "reg_lambda must be non-negative, got %g", p.RegLambda)
	}
	if p.ShrinkageRate < 0 {
		return errors.Wrapf(ErrParameter, "shrinkage_rate must be non-negative, got %g", p.ShrinkageRate)
	}
	if p.ShrinkageRate == 0 {
		p.ShrinkageRate = 1.0
	}
	return p.Params.validate()
}
