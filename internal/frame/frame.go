// Package frame is a small column-oriented table of float64 values, enough to
// carry a numeric dataset through the pipeline: read it from CSV, drop
// incomplete rows, separate features from the target and split it.
package frame

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"

	json "github.com/json-iterator/go"
)

// Frame is an immutable table. Every method returning a *Frame returns a new
// one.
type Frame struct {
	columns []string
	index   map[string]int
	data    [][]float64 // data[column][row]
	rows    int
}

// New builds a frame from column names and one slice per column.
func New(columns []string, data ...[]float64) (*Frame, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("frame has %d column names but %d columns", len(columns), len(data))
	}
	f := &Frame{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, len(data)),
	}
	for i, name := range columns {
		if _, dup := f.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		f.index[name] = i
		if i > 0 && len(data[i]) != len(data[0]) {
			return nil, fmt.Errorf("column %q has %d rows, want %d", name, len(data[i]), len(data[0]))
		}
		f.data[i] = append([]float64(nil), data[i]...)
	}
	if len(data) > 0 {
		f.rows = len(data[0])
	}
	return f, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.columns)
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return append([]float64(nil), f.data[i]...), nil
}

// Drop returns the frame without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := f.index[n]; !ok {
			return nil, fmt.Errorf("column %q not found", n)
		}
		drop[n] = true
	}
	var cols []string
	var data [][]float64
	for i, c := range f.columns {
		if !drop[c] {
			cols = append(cols, c)
			data = append(data, f.data[i])
		}
	}
	return New(cols, data...)
}

// Select returns the named columns in the order given.
func (f *Frame) Select(names ...string) (*Frame, error) {
	data := make([][]float64, len(names))
	for i, n := range names {
		c, ok := f.index[n]
		if !ok {
			return nil, fmt.Errorf("column %q not found", n)
		}
		data[i] = f.data[c]
	}
	return New(names, data...)
}

// DropNA returns the frame without rows holding a NaN in any column.
func (f *Frame) DropNA() *Frame {
	var keep []int
	for r := 0; r < f.rows; r++ {
		complete := true
		for c := range f.data {
			if math.IsNaN(f.data[c][r]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}
	return f.Subset(keep)
}

// Subset returns the given rows, in the given order.
func (f *Frame) Subset(rows []int) *Frame {
	data := make([][]float64, len(f.data))
	for c := range f.data {
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = f.data[c][r]
		}
		data[c] = col
	}
	out, _ := New(f.columns, data...)
	return out
}

// Row returns a copy of row r.
func (f *Frame) Row(r int) []float64 {
	row := make([]float64, len(f.data))
	for c := range f.data {
		row[c] = f.data[c][r]
	}
	return row
}

// Matrix returns the frame as rows of values.
func (f *Frame) Matrix() [][]float64 {
	out := make([][]float64, f.rows)
	for r := range out {
		out[r] = f.Row(r)
	}
	return out
}

// String summarizes the frame's shape.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame[%d rows x %d columns]", f.rows, len(f.columns))
}

// wire is the serialized form of a Frame.
type wire struct {
	Columns []string    `json:"columns"`
	Data    [][]float64 `json:"data"`
}

// GobEncode implements gob.GobEncoder.
func (f *Frame) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire{Columns: f.columns, Data: f.data}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (f *Frame) GobDecode(b []byte) error {
	var w wire
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return err
	}
	out, err := New(w.Columns, w.Data...)
	if err != nil {
		return err
	}
	*f = *out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{Columns: f.columns, Data: f.data})
}

func init() {
	gob.Register(&Frame{})
	gob.Register([]float64{})
}
