package tfidf

import (
	"fmt"
	"math"
	"sort"
)

// Vector is a sparse row vector: Indices holds column positions in strictly
// ascending order and Values the weight at each position. The zero value is
// the zero vector.
type Vector struct {
	Indices []uint32
	Values  []float64
}

// NNZ returns the number of stored (non-zero) entries.
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// Dot computes the dot product with o by merge-walking both index lists.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// NormalizeL2 scales the vector to unit Euclidean length in place.
// Normalizing the zero vector is a no-op; it reports false in that case.
func (v Vector) NormalizeL2() bool {
	norm := v.Norm()
	if norm == 0 {
		return false
	}
	inv := 1 / norm
	for i := range v.Values {
		v.Values[i] *= inv
	}
	return true
}

// vectorFromCounts builds a sorted sparse vector from per-column raw counts
// multiplied by the matching IDF weight.
func vectorFromCounts(counts map[uint32]float64, idf []float64) Vector {
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]uint32, 0, len(counts))
	for j := range counts {
		indices = append(indices, j)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })

	values := make([]float64, len(indices))
	for i, j := range indices {
		values[i] = counts[j] * idf[j]
	}

	return Vector{Indices: indices, Values: values}
}

// Matrix is a sparse document-term matrix in CSR form. Rows are appended in
// corpus order and are immutable once added.
type Matrix struct {
	cols   int
	rowPtr []int
	colIdx []uint32
	values []float64
}

// NewMatrix creates an empty matrix with the given column count.
func NewMatrix(cols int) *Matrix {
	return &Matrix{
		cols:   cols,
		rowPtr: []int{0},
	}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return len(m.rowPtr) - 1
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// NNZ returns the total number of stored entries.
func (m *Matrix) NNZ() int {
	return len(m.values)
}

// AppendRow adds v as the next row. The vector's indices must be strictly
// ascending and within the column bounds; violating either indicates the
// row was built against a different vocabulary.
func (m *Matrix) AppendRow(v Vector) error {
	if len(v.Indices) != len(v.Values) {
		return fmt.Errorf("tfidf: row has %d indices but %d values", len(v.Indices), len(v.Values))
	}
	prev := -1
	for _, j := range v.Indices {
		if int(j) >= m.cols {
			return fmt.Errorf("tfidf: column %d out of range (cols=%d)", j, m.cols)
		}
		if int(j) <= prev {
			return fmt.Errorf("tfidf: row indices not strictly ascending at column %d", j)
		}
		prev = int(j)
	}

	m.colIdx = append(m.colIdx, v.Indices...)
	m.values = append(m.values, v.Values...)
	m.rowPtr = append(m.rowPtr, len(m.colIdx))
	return nil
}

// Row returns a view of row i. The returned vector shares the matrix's
// backing arrays and must not be modified.
func (m *Matrix) Row(i int) Vector {
	start, end := m.rowPtr[i], m.rowPtr[i+1]
	return Vector{
		Indices: m.colIdx[start:end],
		Values:  m.values[start:end],
	}
}
