// Package dataprep loads the raw dataset and prepares it for training or
// inference.
package dataprep

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Name is the registry name of this module.
const Name = "data_prep"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the module's functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name,
		transform.New("dataset", Dataset,
			transform.Describe("Load the raw CSV dataset and drop incomplete rows."),
			transform.Inputs("data_path"),
			transform.WhenIn(transform.Bind{"mode": []any{"training", "inference"}}),
		),
		transform.New("processed_inference_dataset", ProcessedInferenceDataset,
			transform.Inputs("dataset"),
			transform.WhenIn(transform.Bind{"mode": []any{"inference"}}),
		),
		transform.New("features_and_target", FeaturesAndTarget,
			transform.Describe("Separate the feature columns from the target column."),
			transform.Inputs("dataset"),
			transform.Default("target_column", "target"),
			transform.ExtractFields("features", "target"),
			transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
		),
	)
}

// Dataset reads data_path and drops rows with missing values.
func Dataset(ctx context.Context, args transform.Args) (any, error) {
	path, err := transform.Arg[string](args, "data_path")
	if err != nil {
		return nil, err
	}
	raw, err := frame.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	clean := raw.DropNA()
	ctxlog.FromContext(ctx).Debug("Dataset loaded.", "path", path, "rows", raw.Len(), "complete_rows", clean.Len())
	return clean, nil
}

// ProcessedInferenceDataset passes the dataset through unchanged.
func ProcessedInferenceDataset(ctx context.Context, args transform.Args) (any, error) {
	return transform.Arg[*frame.Frame](args, "dataset")
}

// FeaturesAndTarget splits the dataset into a feature frame and the target
// column.
func FeaturesAndTarget(ctx context.Context, args transform.Args) (any, error) {
	ds, err := transform.Arg[*frame.Frame](args, "dataset")
	if err != nil {
		return nil, err
	}
	col, err := transform.Arg[string](args, "target_column")
	if err != nil {
		return nil, err
	}

	target, err := ds.Column(col)
	if err != nil {
		return nil, fmt.Errorf("dataset has no target: %w", err)
	}
	features, err := ds.Drop(col)
	if err != nil {
		return nil, err
	}
	return map[string]any{"features": features, "target": target}, nil
}
