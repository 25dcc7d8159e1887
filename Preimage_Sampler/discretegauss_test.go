package Preimage_Sampler

import (
	"math"
	"math/rand"
	"testing"
)

// TestDiscreteGaussianMoments checks empirical mean and variance of the
// inversion sampler against the configured parameters.
func TestDiscreteGaussianMoments(t *testing.T) {
	const (
		sigma  = 4.0
		trials = 20000
	)
	rng := rand.New(rand.NewSource(1))
	dg := NewDiscreteGaussianFromSource(sigma, rng)

	var sum, sumSq float64
	for i := 0; i < trials; i++ {
		x := float64(dg.Draw(0))
		sum += x
		sumSq += x * x
	}
	mean := sum / trials
	variance := sumSq/trials - mean*mean

	if math.Abs(mean) > 0.15 {
		t.Fatalf("mean %f too far from 0", mean)
	}
	if math.Abs(variance-sigma*sigma)/(sigma*sigma) > 0.1 {
		t.Fatalf("variance %f too far from %f", variance, sigma*sigma)
	}
}

// TestDiscreteGaussianCenter verifies that a non-integer center shifts
// the sample mean accordingly.
func TestDiscreteGaussianCenter(t *testing.T) {
	const (
		sigma  = 3.19
		center = 7.4
		trials = 20000
	)
	rng := rand.New(rand.NewSource(2))
	dg := NewDiscreteGaussianFromSource(sigma, rng)

	var sum float64
	for i := 0; i < trials; i++ {
		sum += float64(dg.Draw(center))
	}
	mean := sum / trials
	if math.Abs(mean-center) > 0.2 {
		t.Fatalf("mean %f too far from center %f", mean, center)
	}

	const negCenter = -2.6
	sum = 0
	for i := 0; i < trials; i++ {
		sum += float64(dg.Draw(negCenter))
	}
	mean = sum / trials
	if math.Abs(mean-negCenter) > 0.2 {
		t.Fatalf("mean %f too far from center %f", mean, negCenter)
	}
}

// TestKarneyBranch exercises the large-sigma sampler, which bypasses the
// inversion table entirely.
func TestKarneyBranch(t *testing.T) {
	const (
		sigma  = 500.0
		trials = 5000
	)
	rng := rand.New(rand.NewSource(3))
	dg := NewDiscreteGaussianFromSource(sigma, rng)
	if dg.peikert {
		t.Fatalf("sigma %f should select the Karney branch", sigma)
	}

	var sum float64
	for i := 0; i < trials; i++ {
		x := float64(dg.Draw(0))
		if math.Abs(x) > 10*sigma {
			t.Fatalf("sample %f far outside the tail bound", x)
		}
		sum += x
	}
	mean := sum / trials
	if math.Abs(mean) > sigma/10 {
		t.Fatalf("mean %f too far from 0", mean)
	}
}
