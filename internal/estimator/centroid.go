package estimator

import (
	"math"
	"sort"
)

// NearestCentroid predicts the class whose mean feature row is closest.
type NearestCentroid struct {
	Classes   []float64
	Centroids [][]float64
	Features  int
}

// NewNearestCentroid returns an unfitted model.
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

// Name implements Classifier.
func (m *NearestCentroid) Name() string { return "nearest_centroid" }

// Fit implements Classifier.
func (m *NearestCentroid) Fit(x [][]float64, y []float64) error {
	width, err := checkTrainingSet(x, y)
	if err != nil {
		return err
	}

	sums := make(map[float64][]float64)
	counts := make(map[float64]int)
	for i, row := range x {
		s, ok := sums[y[i]]
		if !ok {
			s = make([]float64, width)
			sums[y[i]] = s
		}
		for j, v := range row {
			s[j] += v
		}
		counts[y[i]]++
	}

	m.Classes = m.Classes[:0]
	for c := range sums {
		m.Classes = append(m.Classes, c)
	}
	sort.Float64s(m.Classes)
	m.Centroids = make([][]float64, len(m.Classes))
	for i, c := range m.Classes {
		centroid := sums[c]
		for j := range centroid {
			centroid[j] /= float64(counts[c])
		}
		m.Centroids[i] = centroid
	}
	m.Features = width
	return nil
}

// Predict implements Classifier.
func (m *NearestCentroid) Predict(x [][]float64) ([]float64, error) {
	if len(m.Centroids) == 0 {
		return nil, ErrNotFitted
	}
	if err := checkRows(x, m.Features); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range m.Centroids {
			d := 0.0
			for j, v := range row {
				diff := v - centroid[j]
				d += diff * diff
			}
			if d < bestDist {
				best, bestDist = c, d
			}
		}
		out[i] = m.Classes[best]
	}
	return out, nil
}
