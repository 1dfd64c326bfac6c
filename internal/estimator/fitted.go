package estimator

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/mlgridgo/internal/frame"
)

// Fitted is a trained classifier together with the feature columns it was
// fitted on, in fitting order. Predictions select features by name, so a
// frame with reordered or extra columns is scored correctly.
type Fitted struct {
	Model   Classifier
	Columns []string
}

// Fit trains model on x and records x's columns.
func Fit(model Classifier, x *frame.Frame, y []float64) (*Fitted, error) {
	if model == nil {
		return nil, errors.New("no model to fit")
	}
	if err := model.Fit(x.Matrix(), y); err != nil {
		return nil, fmt.Errorf("failed to fit %s: %w", model.Name(), err)
	}
	return &Fitted{Model: model, Columns: x.Columns()}, nil
}

// Name returns the wrapped model's name.
func (f *Fitted) Name() string {
	return f.Model.Name()
}

// Predict scores x by the columns the model was fitted on.
func (f *Fitted) Predict(x *frame.Frame) ([]float64, error) {
	features, err := x.Select(f.Columns...)
	if err != nil {
		return nil, fmt.Errorf("%s was fitted on %v: %w", f.Name(), f.Columns, err)
	}
	pred, err := f.Model.Predict(features.Matrix())
	if err != nil {
		return nil, fmt.Errorf("%s failed to predict: %w", f.Name(), err)
	}
	return pred, nil
}
