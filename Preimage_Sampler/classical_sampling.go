package Preimage_Sampler

import (
	"fmt"
	"math"
	"math/rand"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// samplePerturbation draws p ∈ ℤ^m with covariance s²·I − σₜ²·T·Tᵀ,
// T = [R; I], via a dense Cholesky factorization followed by randomized
// rounding of width σ_trap. Together with a G-sample of width σₜ the
// convolution yields a spherical preimage of width s, independent of R.
//
// Returns a parameter error when s is too small for the factorization to
// stay positive definite; never clamps silently.
func samplePerturbation(p *GadgetParameters, R *mat.MatZ, s float64, rng *rand.Rand) (*mat.MatZ, error) {
	m := p.M
	mBar := p.MBar
	nk := p.N * p.K
	sigmaT := p.SigmaT()
	roundWidth := p.SigmaTrap

	// Σ = s²·I − σₜ²·T·Tᵀ − r²·I, with T·Tᵀ assembled blockwise from R.
	cov := make([][]float64, m)
	for i := range cov {
		cov[i] = make([]float64, m)
	}
	diag := s*s - roundWidth*roundWidth
	st2 := sigmaT * sigmaT
	for i := 0; i < mBar; i++ {
		for j := 0; j < mBar; j++ {
			var dot float64
			for l := 0; l < nk; l++ {
				dot += float64(R.At(i, l)) * float64(R.At(j, l))
			}
			cov[i][j] = -st2 * dot
		}
		cov[i][i] += diag
	}
	for i := 0; i < mBar; i++ {
		for l := 0; l < nk; l++ {
			v := -st2 * float64(R.At(i, l))
			cov[i][mBar+l] = v
			cov[mBar+l][i] = v
		}
	}
	for l := 0; l < nk; l++ {
		cov[mBar+l][mBar+l] = diag - st2
	}

	chol, err := cholesky(cov)
	if err != nil {
		return nil, fmt.Errorf("sample perturbation: width s = %g violates s² > σₜ²·s₁([R;I])²: %w", s, err)
	}

	// c = L·g with g ~ N(0,1)^m, then randomized rounding of each
	// coordinate at width σ_trap.
	src := gaussSource{r: rng}
	g := make([]float64, m)
	for i := range g {
		g[i] = src.normFloat64()
	}
	out := mat.NewMatZ(m, 1)
	for i := 0; i < m; i++ {
		var c float64
		for j := 0; j <= i; j++ {
			c += chol[i][j] * g[j]
		}
		dg := NewDiscreteGaussianFromSource(roundWidth, rng)
		out.Set(i, 0, dg.Draw(c))
	}
	return out, nil
}

// cholesky returns the lower-triangular factor of a symmetric matrix, or
// an error on a non-positive pivot.
func cholesky(a [][]float64) ([][]float64, error) {
	n := len(a)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for l := 0; l < j; l++ {
				sum -= L[i][l] * L[j][l]
			}
			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("pivot %d is %g, matrix not positive definite", i, sum)
				}
				L[i][i] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}
	return L, nil
}

// SamplePreimage draws a short x ∈ ℤ^m with A·x ≡ u (mod q), using the
// trapdoor to reduce the coset search to a gadget sample:
//
//	p ← perturbation, v = u − A·p, z ← G⁻¹_gauss(v), x = p + [R·z; z]
//
// The output is distributed as a discrete Gaussian of width s over the
// coset {x : A·x = u}, independent of which trapdoor produced it.
func SamplePreimage(p *GadgetParameters, td *Trapdoor, u *mat.MatZq, s float64, rng *rand.Rand) (*mat.MatZ, error) {
	if u.Rows != p.N || u.Cols != 1 {
		panic(fmt.Sprintf("SamplePreimage: syndrome is %dx%d, want %dx1", u.Rows, u.Cols, p.N))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	pert, err := samplePerturbation(p, td.R, s, rng)
	if err != nil {
		return nil, err
	}

	// v = u − A·p
	v := u.Sub(td.A.MulZ(pert))

	// z with G·z ≡ v
	z := SampleGVector(p, p.SigmaT(), v, rng)

	// x = p + [R·z; z]
	x := pert.Add(td.R.Mul(z).ConcatVertical(z))
	return x, nil
}
