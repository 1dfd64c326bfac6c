package estimator

import (
	"errors"
	"math/rand/v2"
)

// Stump is a one-split decision rule.
type Stump struct {
	Feature   int
	Threshold float64
	Left      float64 // label when the feature is <= Threshold
	Right     float64
}

// StumpEnsemble is a bag of decision stumps, each fitted on a bootstrap
// sample and a random feature, voting by majority.
type StumpEnsemble struct {
	NEstimators int
	Seed        uint64
	Stumps      []Stump
	Features    int
}

// NewStumpEnsemble returns an unfitted ensemble of n stumps.
func NewStumpEnsemble(n int, seed uint64) *StumpEnsemble {
	return &StumpEnsemble{NEstimators: n, Seed: seed}
}

// Name implements Classifier.
func (m *StumpEnsemble) Name() string { return "stump_ensemble" }

// Fit implements Classifier. The same seed and data always produce the same
// model.
func (m *StumpEnsemble) Fit(x [][]float64, y []float64) error {
	width, err := checkTrainingSet(x, y)
	if err != nil {
		return err
	}
	if m.NEstimators < 1 {
		return errors.New("ensemble needs at least one estimator")
	}

	rng := rand.New(rand.NewPCG(m.Seed, m.Seed))
	fallback := majority(y)
	m.Stumps = make([]Stump, 0, m.NEstimators)
	for e := 0; e < m.NEstimators; e++ {
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.IntN(len(x))
		}
		feature := rng.IntN(width)

		mean := 0.0
		for _, i := range sample {
			mean += x[i][feature]
		}
		mean /= float64(len(sample))

		var left, right []float64
		for _, i := range sample {
			if x[i][feature] <= mean {
				left = append(left, y[i])
			} else {
				right = append(right, y[i])
			}
		}
		s := Stump{Feature: feature, Threshold: mean, Left: fallback, Right: fallback}
		if len(left) > 0 {
			s.Left = majority(left)
		}
		if len(right) > 0 {
			s.Right = majority(right)
		}
		m.Stumps = append(m.Stumps, s)
	}
	m.Features = width
	return nil
}

// Predict implements Classifier.
func (m *StumpEnsemble) Predict(x [][]float64) ([]float64, error) {
	if len(m.Stumps) == 0 {
		return nil, ErrNotFitted
	}
	if err := checkRows(x, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	votes := make([]float64, len(m.Stumps))
	for i, row := range x {
		for s, stump := range m.Stumps {
			if row[stump.Feature] <= stump.Threshold {
				votes[s] = stump.Left
			} else {
				votes[s] = stump.Right
			}
		}
		out[i] = majority(votes)
	}
	return out, nil
}
