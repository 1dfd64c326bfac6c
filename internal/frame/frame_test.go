package frame

import (
	"bytes"
	"encoding/gob"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `age,hours,target
39,40,0
50,,1
38,40,0
NA,45,1
52,60,1
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	f, err := ReadCSV(strings.NewReader(sample))

	require.NoError(t, err)
	assert.Equal(t, []string{"age", "hours", "target"}, f.Columns())
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, 3, f.Width())
	hours, err := f.Column("hours")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(hours[1]))
	assert.Equal(t, 60.0, hours[4])
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "no header row")

	_, err = ReadCSV(strings.NewReader("a,b\n1,x\n"))
	assert.ErrorContains(t, err, `csv line 2, column "b": not a number`)

	_, err = ReadCSV(strings.NewReader("a,b\n1\n"))
	assert.ErrorContains(t, err, "failed to read csv line 2")

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "failed to open dataset")
}

func TestReadCSVFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, f.Len())
}

func TestDropNAAndDrop(t *testing.T) {
	t.Parallel()
	f, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)

	// --- Act ---
	clean := f.DropNA()
	features, err := clean.Drop("target")
	require.NoError(t, err)
	target, err := clean.Column("target")
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, 3, clean.Len())
	assert.Equal(t, 5, f.Len(), "the source frame is unchanged")
	assert.Equal(t, []string{"age", "hours"}, features.Columns())
	assert.Equal(t, []float64{0, 0, 1}, target)
	assert.Equal(t, [][]float64{{39, 40}, {38, 40}, {52, 60}}, features.Matrix())

	_, err = clean.Drop("nope")
	assert.ErrorContains(t, err, `column "nope" not found`)
	_, err = clean.Column("nope")
	assert.ErrorContains(t, err, `column "nope" not found`)
}

func TestSelect(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	f, err := New([]string{"age", "hours", "target"}, []float64{39, 50}, []float64{40, 45}, []float64{0, 1})
	require.NoError(t, err)

	// --- Act ---
	picked, err := f.Select("hours", "age")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"hours", "age"}, picked.Columns())
	assert.Equal(t, [][]float64{{40, 39}, {45, 50}}, picked.Matrix())

	_, err = f.Select("age", "nope")
	assert.ErrorContains(t, err, `column "nope" not found`)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"a"}, []float64{1}, []float64{2})
	assert.ErrorContains(t, err, "1 column names but 2 columns")

	_, err = New([]string{"a", "a"}, []float64{1}, []float64{2})
	assert.ErrorContains(t, err, "duplicate column")

	_, err = New([]string{"a", "b"}, []float64{1}, []float64{2, 3})
	assert.ErrorContains(t, err, `column "b" has 2 rows, want 1`)
}

func TestTrainTestSplit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := 10
	col := make([]float64, n)
	y := make([]float64, n)
	for i := range col {
		col[i] = float64(i)
		y[i] = float64(i % 2)
	}
	x, err := New([]string{"i"}, col)
	require.NoError(t, err)

	// --- Act ---
	split, err := TrainTestSplit(x, y, 0.2, 42)
	require.NoError(t, err)
	again, err := TrainTestSplit(x, y, 0.2, 42)
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, 8, split.XTrain.Len())
	assert.Equal(t, 2, split.XTest.Len())
	assert.Len(t, split.YTrain, 8)
	assert.Len(t, split.YTest, 2)
	assert.Equal(t, split.XTest.Matrix(), again.XTest.Matrix(), "same seed, same split")

	seen := map[float64]bool{}
	for _, part := range []*Frame{split.XTrain, split.XTest} {
		ids, _ := part.Column("i")
		for i, id := range ids {
			assert.False(t, seen[id], "row %v appears twice", id)
			seen[id] = true
			if part == split.XTest {
				assert.Equal(t, float64(int(id)%2), split.YTest[i], "targets follow their rows")
			}
		}
	}
	assert.Len(t, seen, n)
}

func TestTrainTestSplit_Errors(t *testing.T) {
	t.Parallel()
	x, err := New([]string{"a"}, []float64{1, 2})
	require.NoError(t, err)

	_, err = TrainTestSplit(x, []float64{1}, 0.5, 1)
	assert.ErrorContains(t, err, "target has 1")

	_, err = TrainTestSplit(x, []float64{1, 2}, 1.5, 1)
	assert.ErrorContains(t, err, "between 0 and 1")

	one, err := New([]string{"a"}, []float64{1})
	require.NoError(t, err)
	_, err = TrainTestSplit(one, []float64{1}, 0.5, 1)
	assert.ErrorContains(t, err, "cannot split 1 rows")
}

func TestFrame_Serialization(t *testing.T) {
	t.Parallel()
	f, err := New([]string{"a", "b"}, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(f))
	var decoded Frame
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))
	assert.Equal(t, f.Matrix(), decoded.Matrix())
	assert.Equal(t, f.Columns(), decoded.Columns())

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a","b"],"data":[[1,2],[3,4]]}`, string(out))
	assert.Equal(t, "Frame[2 rows x 2 columns]", f.String())
}
