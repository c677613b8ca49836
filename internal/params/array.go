package params

import (
	"fmt"
	"strconv"
	"strings"
)

// Array is a numeric archive entry stored as float32 values in C order.
type Array struct {
	Name  string
	DType string
	Shape []int
	Data  []float32
}

// Rank returns the number of dimensions.
func (a Array) Rank() int {
	return len(a.Shape)
}

// Dim returns the size of axis i, or 0 when the axis does not exist.
func (a Array) Dim(i int) int {
	if i < 0 || i >= len(a.Shape) {
		return 0
	}
	return a.Shape[i]
}

// Index returns the sub-array at position i of the leading axis. The result
// shares storage with a.
func (a Array) Index(i int) (Array, error) {
	if a.Rank() == 0 {
		return Array{}, fmt.Errorf("index %s: array is a scalar", a.Name)
	}
	if i < 0 || i >= a.Shape[0] {
		return Array{}, fmt.Errorf("index %s: %d out of range [0, %d)", a.Name, i, a.Shape[0])
	}
	stride := elements(a.Shape[1:])
	return Array{
		Name:  a.Name,
		DType: a.DType,
		Shape: append([]int(nil), a.Shape[1:]...),
		Data:  a.Data[i*stride : (i+1)*stride],
	}, nil
}

// ShapeString formats the shape the way NumPy prints it, e.g. "(4, 3)" or "(4,)".
func (a Array) ShapeString() string {
	return FormatShape(a.Shape)
}

// FormatShape formats a shape tuple the way NumPy prints it.
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func elements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
