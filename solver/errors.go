package solver

import (
	"errors"
	"fmt"
)

// Outcome classifies how a solve ended.
type Outcome int

const (
	Converged Outcome = iota
	NotTradable
	RootNotBracketed
	MaxEvaluationsExceeded
)

func (o Outcome) String() string {
	switch o {
	case Converged:
		return "Converged"
	case NotTradable:
		return "NotTradable"
	case RootNotBracketed:
		return "RootNotBracketed"
	case MaxEvaluationsExceeded:
		return "MaxEvaluationsExceeded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

var (
	// ErrNotTradable: the objective has no attainable root in the admissible range.
	ErrNotTradable = errors.New("not tradable")
	// ErrRootNotBracketed: no sign change was found.
	ErrRootNotBracketed = errors.New("root not bracketed")
	// ErrMaxEvaluationsExceeded: the accuracy was not reached within the evaluation budget.
	ErrMaxEvaluationsExceeded = errors.New("maximum number of function evaluations exceeded")
)

// Error is a failed solve. It unwraps to the sentinel matching Outcome.
type Error struct {
	Outcome     Outcome
	Evaluations int
	// Lower and Upper are the last bracket tried.
	Lower, Upper float64
	Msg          string
}

func (e *Error) Error() string {
	s := e.Unwrap().Error()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return fmt.Sprintf("%s (%d evaluations, last bracket [%g, %g])", s, e.Evaluations, e.Lower, e.Upper)
}

func (e *Error) Unwrap() error {
	switch e.Outcome {
	case NotTradable:
		return ErrNotTradable
	case RootNotBracketed:
		return ErrRootNotBracketed
	default:
		return ErrMaxEvaluationsExceeded
	}
}

// OutcomeOf reports the outcome carried by err; nil is Converged.
func OutcomeOf(err error) (Outcome, bool) {
	if err == nil {
		return Converged, true
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Outcome, true
	}
	return 0, false
}
