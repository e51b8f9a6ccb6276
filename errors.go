package grove

import "github.com/pkg/errors"

//Sentinel errors of the induction engine. Both classes of failure are
//programming or input contract violations: they are surfaced immediately
//and never retried.
var (
	//ErrParameter reports an invalid construction parameter.
	ErrParameter = errors.New("invalid parameter")
	//ErrShape reports inconsistent input dimensions passed to Fit.
	ErrShape = errors.New("shape mismatch")
)
