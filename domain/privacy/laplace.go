// Package privacy perturbs mining results with differential-privacy
// noise before they leave the data holder. Only the utility sums are
// noised; item content and support counts pass through untouched.
package privacy

import (
	"errors"
	"math"
	"math/rand"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

// ErrInvalidEpsilon indicates a non-positive privacy budget.
var ErrInvalidEpsilon = errors.New("epsilon must be positive")

// ErrNegativeSensitivity indicates a negative sensitivity bound.
var ErrNegativeSensitivity = errors.New("sensitivity must be non-negative")

// Mechanism adds calibrated noise to a set of numeric values.
type Mechanism interface {
	// Perturb returns a noisy copy of values, calibrated to the given
	// sensitivity (the maximum change one record can cause).
	Perturb(values map[string]float64, sensitivity float64) (map[string]float64, error)
}

// Laplace is the Laplace mechanism: noise drawn from Laplace(0,
// sensitivity/epsilon). Smaller epsilon means stronger privacy.
type Laplace struct {
	Epsilon float64
	rng     *rand.Rand
}

// NewLaplace creates the mechanism with the given budget.
func NewLaplace(epsilon float64) (*Laplace, error) {
	if epsilon <= 0 {
		return nil, ErrInvalidEpsilon
	}
	return &Laplace{Epsilon: epsilon}, nil
}

// NewSeededLaplace creates a mechanism with a deterministic noise
// source. For tests; production callers use NewLaplace.
func NewSeededLaplace(epsilon float64, seed int64) (*Laplace, error) {
	m, err := NewLaplace(epsilon)
	if err != nil {
		return nil, err
	}
	m.rng = rand.New(rand.NewSource(seed))
	return m, nil
}

// Perturb implements Mechanism.
func (l *Laplace) Perturb(values map[string]float64, sensitivity float64) (map[string]float64, error) {
	if sensitivity < 0 {
		return nil, ErrNegativeSensitivity
	}
	scale := sensitivity / l.Epsilon
	noisy := make(map[string]float64, len(values))
	for k, v := range values {
		noisy[k] = v + l.sample(scale)
	}
	return noisy, nil
}

// sample draws from Laplace(0, scale) by inverse CDF.
func (l *Laplace) sample(scale float64) float64 {
	if scale == 0 {
		return 0
	}
	var u float64
	if l.rng != nil {
		u = l.rng.Float64() - 0.5
	} else {
		u = rand.Float64() - 0.5
	}
	return -scale * sign(u) * math.Log(1-2*math.Abs(u))
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// PerturbResults returns a copy of the result set with noisy utilities.
// The input is never mutated; noised itemsets keep their items and
// support. Sensitivity should be the maximum single-transaction utility
// of the local dataset.
func PerturbResults(rs mining.ResultSet, m Mechanism, sensitivity float64) (mining.ResultSet, error) {
	values := make(map[string]float64, len(rs.Itemsets))
	for _, s := range rs.Itemsets {
		values[s.Key()] = s.Utility
	}
	noisy, err := m.Perturb(values, sensitivity)
	if err != nil {
		return mining.ResultSet{}, err
	}

	out := mining.ResultSet{Partial: rs.Partial, Stopped: rs.Stopped}
	out.Itemsets = make([]mining.Itemset, len(rs.Itemsets))
	for i, s := range rs.Itemsets {
		out.Itemsets[i] = mining.NewItemset(s.Items, noisy[s.Key()], s.Support)
	}
	mining.SortItemsets(out.Itemsets)
	return out, nil
}
