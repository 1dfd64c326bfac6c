// Package training_v2 trains the nearest-centroid classifier.
package training_v2

import (
	"context"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/estimator"
	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Name is the registry name of this module.
const Name = "training__v2"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the module's functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name,
		transform.New("trained_model", TrainedModel,
			transform.Describe("Fit a nearest-centroid classifier on the training split."),
			transform.Inputs("X_train", "y_train"),
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
		),
	)
}

// TrainedModel fits an estimator.NearestCentroid.
func TrainedModel(ctx context.Context, args transform.Args) (any, error) {
	x, err := transform.Arg[*frame.Frame](args, "X_train")
	if err != nil {
		return nil, err
	}
	y, err := transform.Arg[[]float64](args, "y_train")
	if err != nil {
		return nil, err
	}

	model := estimator.NewNearestCentroid()
	fitted, err := estimator.Fit(model, x, y)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Model fitted.", "model", model.Name(), "rows", x.Len(), "classes", len(model.Classes))
	return fitted, nil
}
