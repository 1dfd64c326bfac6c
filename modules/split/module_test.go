package split

import (
	"context"
	"testing"

	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplitData(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	features, err := frame.New([]string{"a"}, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.NoError(t, err)
	target := []float64{0, 1, 0, 1, 0, 1, 0, 1, 0, 1}

	// --- Act ---
	out, err := TrainTestSplitData(context.Background(), transform.Args{
		"features": features, "target": target, "test_size": 0.2, "random_state": 42,
	})

	// --- Assert ---
	require.NoError(t, err)
	fields := out.(map[string]any)
	assert.Equal(t, 8, fields["X_train"].(*frame.Frame).Len())
	assert.Equal(t, 2, fields["X_test"].(*frame.Frame).Len())
	assert.Len(t, fields["y_train"], 8)
	assert.Len(t, fields["y_test"], 2)
}

func TestTrainTestSplitData_Errors(t *testing.T) {
	t.Parallel()
	features, err := frame.New([]string{"a"}, []float64{1, 2})
	require.NoError(t, err)

	_, err = TrainTestSplitData(context.Background(), transform.Args{
		"features": features, "target": []float64{1}, "test_size": 0.5, "random_state": 1,
	})
	assert.ErrorContains(t, err, "target has 1")

	_, err = TrainTestSplitData(context.Background(), transform.Args{"features": features})
	assert.ErrorContains(t, err, `argument "target" not provided`)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	fn, ok := r.Module(Name).Lookup("train_test_split_data")
	require.True(t, ok)
	in, ok := fn.Input("random_state")
	require.True(t, ok)
	assert.Equal(t, 42, in.Default)
}
