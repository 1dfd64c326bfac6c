// Package split divides features and target into train and test parts.
package split

import (
	"context"

	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Name is the registry name of this module.
const Name = "split"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the module's functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name,
		transform.New("train_test_split_data", TrainTestSplitData,
			transform.Describe("Shuffle rows with a fixed seed and hold out a test part."),
			transform.Inputs("features", "target"),
			transform.Default("test_size", 0.2),
			transform.Default("random_state", 42),
			transform.ExtractFields("X_train", "X_test", "y_train", "y_test"),
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
		),
	)
}

// TrainTestSplitData returns X_train, X_test, y_train and y_test.
func TrainTestSplitData(ctx context.Context, args transform.Args) (any, error) {
	features, err := transform.Arg[*frame.Frame](args, "features")
	if err != nil {
		return nil, err
	}
	target, err := transform.Arg[[]float64](args, "target")
	if err != nil {
		return nil, err
	}
	testSize, err := transform.Arg[float64](args, "test_size")
	if err != nil {
		return nil, err
	}
	seed, err := transform.Arg[uint64](args, "random_state")
	if err != nil {
		return nil, err
	}

	s, err := frame.TrainTestSplit(features, target, testSize, seed)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"X_train": s.XTrain,
		"X_test":  s.XTest,
		"y_train": s.YTrain,
		"y_test":  s.YTest,
	}, nil
}
