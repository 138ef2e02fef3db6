package solver

import (
	"errors"
	"math"
)

const (
	epsilon = 2.220446049250313e-16
	// maxShrink bounds the halvings back toward a defined point when an
	// expansion lands where the objective is undefined.
	maxShrink = 8
)

var errBudget = errors.New("evaluation budget exhausted")

type point struct {
	x, f float64
}

// run is the state of one Solve call.
type run struct {
	f      Objective
	p      params
	growth float64
	dThres float64

	evals        int
	best         point
	hasBest      bool
	lower, upper float64
}

func (r *run) fail(o Outcome, msg string) error {
	return &Error{Outcome: o, Evaluations: r.evals, Lower: r.lower, Upper: r.upper, Msg: msg}
}

// eval calls the objective once. ok is false when the value is undefined.
func (r *run) eval(x float64) (v float64, ok bool, err error) {
	if r.evals >= r.p.maxEvals {
		return 0, false, errBudget
	}
	r.evals++
	v, ferr := r.f.Evaluate(x)
	if ferr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, nil
	}
	if !r.hasBest || math.Abs(v) < math.Abs(r.best.f) {
		r.best, r.hasBest = point{x, v}, true
	}
	return v, true, nil
}

func (r *run) clamp(x float64) float64 {
	if x < r.p.lo {
		return r.p.lo
	}
	if x > r.p.hi {
		return r.p.hi
	}
	return x
}

func (r *run) solve(guess float64) (point, error) {
	r.lower, r.upper = guess, guess

	v, ok, _ := r.eval(guess)
	start := point{guess, v}
	if !ok {
		var err error
		if start, err = r.findDefined(guess); err != nil {
			return point{}, err
		}
	}
	if start.f == 0 {
		return start, nil
	}

	if r.p.newton {
		root, done, err := r.newton(start)
		if done || err != nil {
			return root, err
		}
	}
	return r.bracket(start)
}

// findDefined probes symmetrically around guess for a point where the
// objective is defined.
func (r *run) findDefined(guess float64) (point, error) {
	for dx := r.p.step; !math.IsInf(dx, 0); dx *= r.growth {
		lo, hi := r.clamp(guess-dx), r.clamp(guess+dx)
		r.lower, r.upper = lo, hi
		for _, x := range [2]float64{hi, lo} {
			v, ok, err := r.eval(x)
			if err != nil {
				return point{}, r.fail(NotTradable, "objective undefined at every point tried")
			}
			if ok {
				return point{x, v}, nil
			}
		}
		if lo == r.p.lo && hi == r.p.hi {
			return point{}, r.fail(NotTradable, "objective undefined over the whole range")
		}
	}
	return point{}, r.fail(NotTradable, "objective undefined at every point tried")
}

// newton iterates Newton steps while they stay in bounds and shrink the
// residual. The bool is false when the caller should fall back to bracketing.
func (r *run) newton(cur point) (point, bool, error) {
	for {
		d, ok, err := r.derivative(cur)
		if err != nil {
			return point{}, true, r.fail(MaxEvaluationsExceeded, "accuracy not reached in Newton iteration")
		}
		if !ok || math.Abs(d) < r.dThres {
			return point{}, false, nil
		}

		dx := cur.f / d
		x := cur.x - dx
		if math.IsNaN(x) || math.IsInf(x, 0) || x < r.p.lo || x > r.p.hi {
			return point{}, false, nil
		}
		v, ok, err := r.eval(x)
		if err != nil {
			return point{}, true, r.fail(MaxEvaluationsExceeded, "accuracy not reached in Newton iteration")
		}
		if !ok {
			return point{}, false, nil
		}
		if math.Abs(dx) <= r.p.accuracy || v == 0 {
			return point{x, v}, true, nil
		}
		if math.Abs(v) >= math.Abs(cur.f) {
			return point{}, false, nil
		}
		cur = point{x, v}
	}
}

// derivative is analytic for Differentiable objectives and a forward
// difference otherwise. Either way it costs one evaluation.
func (r *run) derivative(p point) (float64, bool, error) {
	if df, ok := r.f.(Differentiable); ok {
		if r.evals >= r.p.maxEvals {
			return 0, false, errBudget
		}
		r.evals++
		d, err := df.Derivative(p.x)
		if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false, nil
		}
		return d, true, nil
	}

	h := math.Sqrt(epsilon) * math.Max(math.Abs(p.x), 1)
	if p.x+h > r.p.hi {
		h = -h
	}
	v, ok, err := r.eval(p.x + h)
	if err != nil || !ok {
		return 0, false, err
	}
	return (v - p.f) / h, true, nil
}

// extend moves one end of the bracket from `from` to `to`, halving the move
// while the objective is undefined there. The bool reports that the end cannot
// move any further: it sits on a bound or on the edge of the defined region.
func (r *run) extend(from point, to float64) (point, bool, error) {
	for i := 0; i <= maxShrink; i++ {
		if to == from.x || math.IsNaN(to) || math.IsInf(to, 0) {
			return from, true, nil
		}
		v, ok, err := r.eval(to)
		if err != nil {
			return from, false, err
		}
		if ok {
			return point{to, v}, i > 0, nil
		}
		to = from.x + (to-from.x)/2
	}
	return from, true, nil
}

// bracket widens [a, b] from start until the objective changes sign, then
// hands over to Brent.
func (r *run) bracket(start point) (point, error) {
	var (
		a, b           point
		aStuck, bStuck bool
		err            error
	)
	if start.f > 0 {
		b = start
		a, aStuck, err = r.extend(start, r.clamp(start.x-r.p.step))
	} else {
		a = start
		b, bStuck, err = r.extend(start, r.clamp(start.x+r.p.step))
	}

	flipflop := -1
	for err == nil {
		r.lower, r.upper = a.x, b.x
		if a.f*b.f <= 0 {
			if a.f == 0 {
				return a, nil
			}
			if b.f == 0 {
				return b, nil
			}
			return r.brent(a, b)
		}
		if aStuck && bStuck {
			return point{}, r.exhausted(a, b)
		}

		var growA bool
		switch {
		case bStuck:
			growA = true
		case aStuck:
			growA = false
		case math.Abs(a.f) < math.Abs(b.f):
			growA = true
		case math.Abs(a.f) > math.Abs(b.f):
			growA = false
		default:
			growA = flipflop == -1
			flipflop = -flipflop
		}
		if growA {
			a, aStuck, err = r.extend(a, r.clamp(a.x+r.growth*(a.x-b.x)))
		} else {
			b, bStuck, err = r.extend(b, r.clamp(b.x+r.growth*(b.x-a.x)))
		}
	}
	return point{}, r.fail(RootNotBracketed, "unable to bracket root within the evaluation budget")
}

// exhausted classifies a bracket that can grow no further. A residual that is
// smallest on the edge of the domain means the root lies outside it.
func (r *run) exhausted(a, b point) error {
	if r.hasBest && (r.best.x == a.x || r.best.x == b.x) {
		return r.fail(NotTradable, "objective closest to zero at the edge of the admissible range")
	}
	return r.fail(RootNotBracketed, "no sign change inside the admissible range")
}

// brent refines a sign-changing bracket with Brent's method.
func (r *run) brent(a, b point) (point, error) {
	xMin, fxMin := a.x, a.f
	xMax, fxMax := b.x, b.f
	root, froot := xMax, fxMax
	var d, e float64

	for {
		if (froot > 0 && fxMax > 0) || (froot < 0 && fxMax < 0) {
			// rename xMin, root, xMax and adjust the bounding interval
			xMax, fxMax = xMin, fxMin
			d = root - xMin
			e = d
		}
		if math.Abs(fxMax) < math.Abs(froot) {
			xMin, root, xMax = root, xMax, root
			fxMin, froot, fxMax = froot, fxMax, froot
		}

		xAcc1 := 2*epsilon*math.Abs(root) + 0.5*r.p.accuracy
		xMid := (xMax - root) / 2
		if math.Abs(xMid) <= xAcc1 || froot == 0 {
			return point{r.clamp(root), froot}, nil
		}

		if math.Abs(e) >= xAcc1 && math.Abs(fxMin) > math.Abs(froot) {
			// inverse quadratic interpolation
			s := froot / fxMin
			var p, q float64
			if xMin == xMax {
				p = 2 * xMid * s
				q = 1 - s
			} else {
				q = fxMin / fxMax
				rr := froot / fxMax
				p = s * (2*xMid*q*(q-rr) - (root-xMin)*(rr-1))
				q = (q - 1) * (rr - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xMid*q - math.Abs(xAcc1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xMid
				e = d
			}
		} else {
			// bisection
			d = xMid
			e = d
		}

		xMin, fxMin = root, froot
		if math.Abs(d) > xAcc1 {
			root += d
		} else {
			root += math.Copysign(xAcc1, xMid)
		}
		v, ok, err := r.eval(root)
		if err != nil {
			return point{}, r.fail(MaxEvaluationsExceeded, "accuracy not reached in Brent iteration")
		}
		if !ok {
			return point{}, r.fail(RootNotBracketed, "objective undefined inside the bracket")
		}
		froot = v
		r.lower, r.upper = math.Min(root, xMax), math.Max(root, xMax)
	}
}
