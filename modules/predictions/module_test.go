package predictions

import (
	"context"
	"testing"

	"github.com/specialistvlad/mlgridgo/internal/estimator"
	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitted(t *testing.T) *estimator.Fitted {
	t.Helper()
	x, err := frame.New([]string{"a", "b"}, []float64{0, 1, 10, 11}, []float64{50, 50, 50, 50})
	require.NoError(t, err)
	m, err := estimator.Fit(estimator.NewNearestCentroid(), x, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	return m
}

func TestXInference(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	withTarget, err := frame.New([]string{"a", "target"}, []float64{1, 2}, []float64{0, 1})
	require.NoError(t, err)
	out, err := XInference(ctx, transform.Args{"processed_inference_dataset": withTarget, "target_column": "target"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.(*frame.Frame).Columns())

	unlabeled, err := frame.New([]string{"a"}, []float64{1, 2})
	require.NoError(t, err)
	out, err = XInference(ctx, transform.Args{"processed_inference_dataset": unlabeled, "target_column": "target"})
	require.NoError(t, err)
	assert.Same(t, unlabeled, out)
}

func TestPredictions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	x, err := frame.New([]string{"a", "b"}, []float64{0.2, 10.4, 0.9}, []float64{50, 50, 50})
	require.NoError(t, err)

	// --- Act ---
	out, err := Predictions(context.Background(), transform.Args{"trained_model": fitted(t), "X": x})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, out)
}

func TestPredictions_MatchesColumnsByName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	x, err := frame.New(
		[]string{"b", "extra", "a"},
		[]float64{50, 50, 50}, []float64{-7, -7, -7}, []float64{0.2, 10.4, 0.9},
	)
	require.NoError(t, err)

	// --- Act ---
	out, err := Predictions(context.Background(), transform.Args{"trained_model": fitted(t), "X": x})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, out)
}

func TestPredictions_MissingFeatureColumn(t *testing.T) {
	t.Parallel()
	x, err := frame.New([]string{"a", "c"}, []float64{1}, []float64{2})
	require.NoError(t, err)

	_, err = Predictions(context.Background(), transform.Args{"trained_model": fitted(t), "X": x})
	assert.ErrorContains(t, err, "nearest_centroid was fitted on [a b]")
	assert.ErrorContains(t, err, `column "b" not found`)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	m := r.Module(Name)
	training, _ := m.Lookup("X__training")
	inference, _ := m.Lookup("X__inference")
	assert.Equal(t, "X", training.BaseName())
	assert.Equal(t, "X", inference.BaseName())
	assert.True(t, training.Active(map[string]any{"mode": "training"}))
	assert.False(t, inference.Active(map[string]any{"mode": "training"}))
}
