package estimator

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/specialistvlad/mlgridgo/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separableFrame(t *testing.T) (*frame.Frame, []float64) {
	t.Helper()
	x, y := separable()
	a := make([]float64, len(x))
	b := make([]float64, len(x))
	for i, row := range x {
		a[i], b[i] = row[0], row[1]
	}
	// b is shifted so the columns are not interchangeable.
	for i := range b {
		b[i] *= 10
	}
	f, err := frame.New([]string{"a", "b"}, a, b)
	require.NoError(t, err)
	return f, y
}

func TestFitted_PredictsByColumnName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	x, y := separableFrame(t)
	fitted, err := Fit(NewNearestCentroid(), x, y)
	require.NoError(t, err)
	query, err := frame.New([]string{"a", "b"}, []float64{1.2, 8.8}, []float64{11, 87})
	require.NoError(t, err)
	reordered, err := frame.New(
		[]string{"extra", "b", "a"},
		[]float64{100, -100}, []float64{11, 87}, []float64{1.2, 8.8},
	)
	require.NoError(t, err)

	// --- Act ---
	want, err := fitted.Predict(query)
	require.NoError(t, err)
	got, err := fitted.Predict(reordered)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fitted.Columns)
	assert.Equal(t, []float64{0, 1}, want)
	assert.Equal(t, want, got)
}

func TestFitted_MissingColumn(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	x, y := separableFrame(t)
	fitted, err := Fit(NewStumpEnsemble(5, 1), x, y)
	require.NoError(t, err)
	renamed, err := frame.New([]string{"a", "c"}, []float64{1}, []float64{1})
	require.NoError(t, err)

	// --- Act ---
	_, err = fitted.Predict(renamed)

	// --- Assert ---
	assert.ErrorContains(t, err, "stump_ensemble was fitted on [a b]")
	assert.ErrorContains(t, err, `column "b" not found`)
}

func TestFit_Errors(t *testing.T) {
	t.Parallel()
	x, _ := separableFrame(t)

	_, err := Fit(nil, x, nil)
	assert.ErrorContains(t, err, "no model to fit")

	_, err = Fit(NewNearestCentroid(), x, []float64{1})
	assert.ErrorContains(t, err, "failed to fit nearest_centroid")
}

func TestFitted_GobRoundTrip(t *testing.T) {
	t.Parallel()
	x, y := separableFrame(t)
	fitted, err := Fit(NewStumpEnsemble(5, 3), x, y)
	require.NoError(t, err)
	want, err := fitted.Predict(x)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(fitted))
	var decoded Fitted
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	got, err := decoded.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, fitted.Columns, decoded.Columns)
}
