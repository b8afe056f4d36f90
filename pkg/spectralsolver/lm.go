package spectralsolver

import (
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Levenberg-Marquardt termination thresholds, matching the legacy
// ceres::Solver::Options this solve was ported from: function
// tolerance, parameter tolerance and minimum line-search step size all
// set to 1e-17, capped at 300 iterations. gonum has no built-in LM
// method (its optimize package covers gradient/quasi-Newton methods
// only), so the solve is hand-rolled here: a finite-difference
// Jacobian feeding damped normal equations solved by gonum/mat.
const (
	lmFuncTolerance  = 1e-17
	lmParamTolerance = 1e-17
	lmMinStepSize    = 1e-17
	lmMaxIterations  = 300
	lmFiniteDiffStep = 1e-6
)

// levenbergMarquardt fits the 6 free IDT parameters that minimize the
// sum of squared residuals between targetLAB and the LAB conversion of
// rgb mapped through the candidate IDT and the fixed ACES-RGB->XYZ
// matrix, seeded at seed. Returns the fitted parameters and whether at
// least one successful (cost-reducing) step was taken.
func levenbergMarquardt(seed [6]float64, rgb [][3]float64, targetLAB [][3]float64, verbosity int) ([6]float64, bool) {
	b := seed
	res := residuals(b, rgb, targetLAB)
	cost := sumSquares(res)

	lambda := 1e-3
	successfulSteps := 0

	for iter := 0; iter < lmMaxIterations; iter++ {
		jac := finiteDiffJacobian(b, rgb, targetLAB)

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)

		resVec := mat.NewVecDense(len(res), res)
		var jtr mat.VecDense
		jtr.MulVec(jac.T(), resVec)

		stepAccepted := false

		// Inner loop: grow lambda until a step reduces cost, or give up
		// on this iteration's gradient direction.
		for attempt := 0; attempt < 30; attempt++ {
			var damped mat.Dense
			damped.CloneFrom(&jtj)
			for i := 0; i < 6; i++ {
				damped.Set(i, i, damped.At(i, i)*(1+lambda))
			}

			var delta mat.VecDense
			if err := delta.SolveVec(&damped, &jtr); err != nil {
				lambda *= 10
				continue
			}

			stepNorm := 0.0
			var bNew [6]float64
			for i := 0; i < 6; i++ {
				d := delta.AtVec(i)
				stepNorm += d * d
				bNew[i] = b[i] + d
			}
			stepNorm = math.Sqrt(stepNorm)

			resNew := residuals(bNew, rgb, targetLAB)
			costNew := sumSquares(resNew)

			if costNew < cost {
				if verbosity > 2 {
					log.Printf("LM iter %d: cost %.6e -> %.6e (lambda=%.3e)", iter, cost, costNew, lambda)
				}

				paramDelta := maxAbsDiff(b, bNew)
				funcDelta := math.Abs(cost - costNew)

				b = bNew
				res = resNew
				cost = costNew
				lambda = math.Max(lambda/10, 1e-300)
				successfulSteps++
				stepAccepted = true

				if funcDelta < lmFuncTolerance*math.Max(1.0, cost) ||
					paramDelta < lmParamTolerance ||
					stepNorm < lmMinStepSize {
					return b, true
				}
				break
			}

			lambda *= 10
		}

		if !stepAccepted {
			break
		}
	}

	return b, successfulSteps > 0
}

// finiteDiffJacobian computes the central-difference Jacobian of the
// residual vector with respect to the 6 fit parameters.
func finiteDiffJacobian(b [6]float64, rgb [][3]float64, targetLAB [][3]float64) *mat.Dense {
	base := residuals(b, rgb, targetLAB)
	n := len(base)
	jac := mat.NewDense(n, 6, nil)

	for p := 0; p < 6; p++ {
		h := lmFiniteDiffStep * math.Max(1.0, math.Abs(b[p]))

		bPlus := b
		bPlus[p] += h
		resPlus := residuals(bPlus, rgb, targetLAB)

		bMinus := b
		bMinus[p] -= h
		resMinus := residuals(bMinus, rgb, targetLAB)

		for i := 0; i < n; i++ {
			jac.Set(i, p, (resPlus[i]-resMinus[i])/(2*h))
		}
	}

	return jac
}

func sumSquares(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return s
}

func maxAbsDiff(a, b [6]float64) float64 {
	var m float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > m {
			m = d
		}
	}
	return m
}
