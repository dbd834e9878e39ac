// Package stats computes the Pearson correlation between the aligned
// index and cat-count columns, with a two-tailed p-value from the
// Student-t approximation.
package stats

import (
	"fmt"
	"math"

	"catstock/pkg/contracts/domain"
)

// Pearson computes the linear correlation between the index values and
// cat counts of the aligned rows. Deterministic and stateless: the same
// rows always produce the same result.
func Pearson(rows []domain.AlignedRow) (domain.CorrelationResult, error) {
	n := len(rows)
	if n < 2 {
		return domain.CorrelationResult{}, fmt.Errorf("%w: have %d rows, need at least 2", ErrInsufficientSamples, n)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, row := range rows {
		xs[i] = row.IndexValue
		ys[i] = row.CatCount
	}

	meanX, meanY := mean(xs), mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 {
		return domain.CorrelationResult{}, fmt.Errorf("index column: %w", ErrDegenerateSeries)
	}
	if varY == 0 {
		return domain.CorrelationResult{}, fmt.Errorf("cat-count column: %w", ErrDegenerateSeries)
	}

	r := cov / math.Sqrt(varX*varY)
	// guard against rounding pushing |r| past 1
	r = math.Max(-1, math.Min(1, r))

	return domain.CorrelationResult{
		Coefficient: r,
		PValue:      twoTailedPValue(r, n),
		SampleSize:  n,
	}, nil
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// twoTailedPValue tests the null hypothesis of zero correlation using
// the t statistic r*sqrt((n-2)/(1-r^2)) with n-2 degrees of freedom.
// The tail probability comes from the regularized incomplete beta
// function: p = I_{df/(df+t^2)}(df/2, 1/2).
func twoTailedPValue(r float64, n int) float64 {
	df := float64(n - 2)
	if df <= 0 {
		return 1
	}
	denom := 1 - r*r
	if denom <= 0 {
		// perfect correlation
		return 0
	}
	t := r * math.Sqrt(df/denom)
	p := regIncBeta(df/2, 0.5, df/(df+t*t))
	// clamp accumulated rounding into [0,1]
	return math.Max(0, math.Min(1, p))
}

// regIncBeta computes the regularized incomplete beta function I_x(a,b)
// via the continued-fraction expansion
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	// symmetry keeps the continued fraction in its fast-converging
	// region; strict comparison so the mirrored call cannot recurse back
	if x > (a+1)/(a+b+2) {
		return 1 - regIncBeta(b, a, 1-x)
	}

	lbeta, _ := math.Lgamma(a + b)
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	front := math.Exp(lbeta - la - lb + a*math.Log(x) + b*math.Log(1-x))

	return front * betacf(a, b, x) / a
}

// betacf evaluates the continued fraction for the incomplete beta
// function by the modified Lentz method
func betacf(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		fpmin         = 1e-300
	)

	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < fpmin {
		d = fpmin
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < epsilon {
			break
		}
	}
	return h
}
