// Package predictions selects the feature frame for the current mode and
// runs the trained model over it.
package predictions

import (
	"context"

	"github.com/specialistvlad/mlgridgo/internal/estimator"
	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Name is the registry name of this module.
const Name = "predictions"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the module's functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name,
		transform.New("X__training", XTraining,
			transform.Inputs("X_test"),
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
		),
		transform.New("X__inference", XInference,
			transform.Inputs("processed_inference_dataset"),
			transform.Default("target_column", "target"),
			transform.WhenIn(transform.Bind{"mode": []any{"inference"}}),
		),
		transform.New("predictions", Predictions,
			transform.Describe("Predict a label for every row of X."),
			transform.Inputs("trained_model", "X"),
			transform.WhenIn(transform.Bind{"mode": []any{"training", "inference"}}),
		),
	)
}

// XTraining scores the held-out test features.
func XTraining(ctx context.Context, args transform.Args) (any, error) {
	return transform.Arg[*frame.Frame](args, "X_test")
}

// XInference scores the inference dataset without its label column, when
// the dataset carries one.
func XInference(ctx context.Context, args transform.Args) (any, error) {
	ds, err := transform.Arg[*frame.Frame](args, "processed_inference_dataset")
	if err != nil {
		return nil, err
	}
	col, err := transform.Arg[string](args, "target_column")
	if err != nil {
		return nil, err
	}
	if _, err := ds.Column(col); err != nil {
		return ds, nil
	}
	return ds.Drop(col)
}

// Predictions returns one predicted label per row.
func Predictions(ctx context.Context, args transform.Args) (any, error) {
	model, err := transform.Arg[*estimator.Fitted](args, "trained_model")
	if err != nil {
		return nil, err
	}
	x, err := transform.Arg[*frame.Frame](args, "X")
	if err != nil {
		return nil, err
	}
	return model.Predict(x)
}
