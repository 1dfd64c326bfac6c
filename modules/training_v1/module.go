// Package training_v1 trains the bagged decision-stump ensemble.
package training_v1

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/estimator"
	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Name is the registry name of this module.
const Name = "training__v1"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the module's functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name,
		transform.New("trained_model", TrainedModel,
			transform.Describe("Fit a stump ensemble on the training split."),
			transform.Inputs("X_train", "y_train"),
			transform.Default("n_estimators", 100),
			transform.Default("random_state", 42),
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
		),
	)
}

// TrainedModel fits an estimator.StumpEnsemble.
func TrainedModel(ctx context.Context, args transform.Args) (any, error) {
	x, err := transform.Arg[*frame.Frame](args, "X_train")
	if err != nil {
		return nil, err
	}
	y, err := transform.Arg[[]float64](args, "y_train")
	if err != nil {
		return nil, err
	}
	n, err := transform.Arg[int](args, "n_estimators")
	if err != nil {
		return nil, err
	}
	seed, err := transform.Arg[uint64](args, "random_state")
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("n_estimators must be positive, got %d", n)
	}

	model := estimator.NewStumpEnsemble(n, seed)
	fitted, err := estimator.Fit(model, x, y)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Model fitted.", "model", model.Name(), "rows", x.Len(), "n_estimators", n)
	return fitted, nil
}
