package training_v2

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

func TestTrainedModel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	x, err := frame.New([]string{"a"}, []float64{0, 1, 10, 11})
	require.NoError(t, err)
	y := []float64{0, 0, 1, 1}

	// --- Act ---
	out, err := TrainedModel(context.Background(), transform.Args{"X_train": x, "y_train": y})

	// --- Assert ---
	require.NoError(t, err)
	fitted, ok := out.(*estimator.Fitted)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, fitted.Columns)
	model, ok := fitted.Model.(*estimator.NearestCentroid)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1}, model.Classes)
	assert.Equal(t, [][]float64{{0.5}, {10.5}}, model.Centroids)
}

func TestTrainedModel_MissingInput(t *testing.T) {
	t.Parallel()
	_, err := TrainedModel(context.Background(), transform.Args{"y_train": []float64{1}})
	assert.ErrorContains(t, err, `argument "X_train" not provided`)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))
	assert.Equal(t, []string{Name}, r.Names())
}
