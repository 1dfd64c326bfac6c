// Package evaluation scores predictions against the held-out labels.
package evaluation

import (
	"context"

	"github.com/specialistvlad/mlgridgo/internal/estimator"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Name is the registry name of this module.
const Name = "evaluation"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the module's functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name,
		transform.New("accuracy", Accuracy,
			transform.Inputs("predictions", "y_test"),
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
		),
	)
}

// Accuracy returns the share of correct predictions.
func Accuracy(ctx context.Context, args transform.Args) (any, error) {
	pred, err := transform.Arg[[]float64](args, "predictions")
	if err != nil {
		return nil, err
	}
	truth, err := transform.Arg[[]float64](args, "y_test")
	if err != nil {
		return nil, err
	}
	return estimator.Accuracy(truth, pred)
}
