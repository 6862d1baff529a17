package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_Dot(t *testing.T) {
	a := Vector{Indices: []uint32{1, 3}, Values: []float64{2, 1}}
	b := Vector{Indices: []uint32{3, 5}, Values: []float64{4, 1}}

	assert.Equal(t, 4.0, a.Dot(b))
	assert.Equal(t, 4.0, b.Dot(a))
}

func TestVector_Dot_Disjoint(t *testing.T) {
	a := Vector{Indices: []uint32{0, 2}, Values: []float64{1, 1}}
	b := Vector{Indices: []uint32{1, 3}, Values: []float64{1, 1}}

	assert.Equal(t, 0.0, a.Dot(b))
	assert.Equal(t, 0.0, a.Dot(Vector{}))
	assert.Equal(t, 0.0, Vector{}.Dot(Vector{}))
}

func TestVector_NormalizeL2(t *testing.T) {
	v := Vector{Indices: []uint32{0, 1}, Values: []float64{3, 4}}

	require.True(t, v.NormalizeL2())
	assert.InDelta(t, 0.6, v.Values[0], 1e-15)
	assert.InDelta(t, 0.8, v.Values[1], 1e-15)
	assert.InDelta(t, 1.0, v.Norm(), 1e-15)
}

func TestVector_NormalizeL2_ZeroVector(t *testing.T) {
	v := Vector{}
	assert.False(t, v.NormalizeL2())

	explicit := Vector{Indices: []uint32{2}, Values: []float64{0}}
	assert.False(t, explicit.NormalizeL2())
	assert.Equal(t, 0.0, explicit.Values[0])
}

func TestMatrix_AppendRowAndView(t *testing.T) {
	m := NewMatrix(4)
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 4, m.Cols())

	require.NoError(t, m.AppendRow(Vector{Indices: []uint32{0, 3}, Values: []float64{1, 2}}))
	require.NoError(t, m.AppendRow(Vector{})) // zero row
	require.NoError(t, m.AppendRow(Vector{Indices: []uint32{2}, Values: []float64{5}}))

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.NNZ())

	r0 := m.Row(0)
	assert.Equal(t, []uint32{0, 3}, r0.Indices)
	assert.Equal(t, []float64{1, 2}, r0.Values)

	assert.Equal(t, 0, m.Row(1).NNZ())

	r2 := m.Row(2)
	assert.Equal(t, []uint32{2}, r2.Indices)
	assert.Equal(t, []float64{5}, r2.Values)
}

func TestMatrix_AppendRow_Validation(t *testing.T) {
	m := NewMatrix(2)

	err := m.AppendRow(Vector{Indices: []uint32{2}, Values: []float64{1}})
	assert.Error(t, err, "column out of range")

	err = m.AppendRow(Vector{Indices: []uint32{1, 0}, Values: []float64{1, 1}})
	assert.Error(t, err, "indices not ascending")

	err = m.AppendRow(Vector{Indices: []uint32{0, 0}, Values: []float64{1, 1}})
	assert.Error(t, err, "duplicate index")

	err = m.AppendRow(Vector{Indices: []uint32{0}, Values: []float64{1, 2}})
	assert.Error(t, err, "length mismatch")

	assert.Equal(t, 0, m.Rows(), "failed appends must not add rows")
}

func TestMatrix_ZeroColumns(t *testing.T) {
	m := NewMatrix(0)
	require.NoError(t, m.AppendRow(Vector{}))
	require.NoError(t, m.AppendRow(Vector{}))

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 0, m.Cols())
	assert.Equal(t, 0.0, m.Row(0).Dot(Vector{}))
}

func TestVector_Norm(t *testing.T) {
	v := Vector{Indices: []uint32{0, 1, 2}, Values: []float64{1, 2, 2}}
	assert.InDelta(t, 3.0, v.Norm(), 1e-15)
	assert.Equal(t, 0.0, Vector{}.Norm())
	assert.False(t, math.IsNaN(Vector{}.Norm()))
}
