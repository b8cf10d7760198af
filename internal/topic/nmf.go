package topic

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const nmfEpsilon = 1e-10

var ErrBadRank = errors.New("nmf rank out of range")

type NMFOptions struct {
	Alpha    float64
	L1Ratio  float64
	Seed     int64
	MaxIter  int
	Tol      float64
	CheckGap int // iterations between convergence checks
}

func DefaultNMFOptions() NMFOptions {
	return NMFOptions{Alpha: 0.1, L1Ratio: 0.5, Seed: 42, MaxIter: 200, Tol: 1e-4, CheckGap: 10}
}

// Factorize approximates the non-negative v (n x m) as w (n x k) times
// h (k x m) with regularized multiplicative updates. Both factors stay
// non-negative as long as v is.
func Factorize(ctx context.Context, v *mat.Dense, k int, opts NMFOptions) (*mat.Dense, *mat.Dense, error) {
	n, m := v.Dims()
	if k <= 0 || k > n || k > m {
		return nil, nil, ErrBadRank
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 200
	}
	if opts.CheckGap <= 0 {
		opts.CheckGap = 10
	}
	l1 := opts.Alpha * opts.L1Ratio
	l2 := opts.Alpha * (1 - opts.L1Ratio)

	w, h := initFactors(v, k, opts.Seed)
	var (
		wtv, wtw, wtwh mat.Dense
		vht, hht, whht mat.Dense
	)
	prev := reconstructionError(v, w, h)
	for it := 1; it <= opts.MaxIter; it++ {
		// h <- h * (w'v) / (w'wh + l1 + l2*h)
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		h.Apply(func(i, j int, x float64) float64 {
			return x * wtv.At(i, j) / (wtwh.At(i, j) + l1 + l2*x + nmfEpsilon)
		}, h)

		// w <- w * (vh') / (whh' + l1 + l2*w)
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		w.Apply(func(i, j int, x float64) float64 {
			return x * vht.At(i, j) / (whht.At(i, j) + l1 + l2*x + nmfEpsilon)
		}, w)

		if it%opts.CheckGap != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cur := reconstructionError(v, w, h)
		if prev > 0 && (prev-cur)/prev < opts.Tol {
			break
		}
		prev = cur
	}
	return w, h, nil
}

func initFactors(v *mat.Dense, k int, seed int64) (*mat.Dense, *mat.Dense) {
	n, m := v.Dims()
	r := rand.New(rand.NewSource(seed))
	scale := math.Sqrt(mat.Sum(v) / float64(n*m) / float64(k))
	if scale == 0 {
		scale = 1
	}
	w := mat.NewDense(n, k, nil)
	h := mat.NewDense(k, m, nil)
	w.Apply(func(_, _ int, _ float64) float64 { return scale * math.Abs(r.NormFloat64()) }, w)
	h.Apply(func(_, _ int, _ float64) float64 { return scale * math.Abs(r.NormFloat64()) }, h)
	return w, h
}

func reconstructionError(v, w, h *mat.Dense) float64 {
	var wh, diff mat.Dense
	wh.Mul(w, h)
	diff.Sub(v, &wh)
	return mat.Norm(&diff, 2)
}
