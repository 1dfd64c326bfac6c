// Package estimator holds the small classifiers the demo pipeline trains.
// They are deliberately simple; what matters to the pipeline is that a
// trained model is a value that can be stored, loaded and asked for
// predictions.
package estimator

import (
	"encoding/gob"
	"errors"
	"fmt"
	"sort"
)

// ErrNotFitted is returned by Predict on an untrained model.
var ErrNotFitted = errors.New("model is not fitted")

// Classifier learns class labels from numeric feature rows.
type Classifier interface {
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) ([]float64, error)
	Name() string
}

func init() {
	gob.Register(&NearestCentroid{})
	gob.Register(&StumpEnsemble{})
	gob.Register(&Fitted{})
}

// Accuracy returns the share of predictions equal to the true labels.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("have %d labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, errors.New("no labels to score")
	}
	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}

func checkTrainingSet(x [][]float64, y []float64) (int, error) {
	if len(x) == 0 {
		return 0, errors.New("training set is empty")
	}
	if len(x) != len(y) {
		return 0, fmt.Errorf("have %d rows but %d labels", len(x), len(y))
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return 0, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	if width == 0 {
		return 0, errors.New("training set has no features")
	}
	return width, nil
}

func checkRows(x [][]float64, width int) error {
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, model was fitted on %d", i, len(row), width)
		}
	}
	return nil
}

// majority returns the most frequent label, the smallest one on ties.
func majority(labels []float64) float64 {
	counts := make(map[float64]int)
	for _, l := range labels {
		counts[l]++
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	best, bestCount := 0.0, -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
