package evaluation

import (
	"context"
	"testing"

	"github.com/specialistvlad/mlgridgo/internal/registry"
	"github.com/specialistvlad/mlgridgo/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	t.Parallel()

	out, err := Accuracy(context.Background(), transform.Args{
		"predictions": []float64{1, 0, 1, 1},
		"y_test":      []float64{1, 0, 0, 1},
	})

	require.NoError(t, err)
	assert.InDelta(t, 0.75, out, 1e-9)
}

func TestAccuracy_LengthMismatch(t *testing.T) {
	t.Parallel()
	_, err := Accuracy(context.Background(), transform.Args{
		"predictions": []float64{1},
		"y_test":      []float64{1, 0},
	})
	assert.ErrorContains(t, err, "have 2 labels but 1 predictions")
}

func TestRegister(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	fn, ok := r.Module(Name).Lookup("accuracy")
	require.True(t, ok)
	assert.False(t, fn.Active(map[string]any{"mode": "inference"}))
}
