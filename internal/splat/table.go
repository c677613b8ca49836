package splat

import (
	"splatply/internal/params"
	"splatply/internal/ply"
)

// scaleRepeat is how many output channels each stored scale value fills.
const scaleRepeat = 3

// VertexElement is the PLY element name for splat records.
const VertexElement = "vertex"

// Block summarizes one concatenated parameter block.
type Block struct {
	Name  string
	Shape []int
}

// VertexTable is the N x F float32 matrix written as the vertex element.
type VertexTable struct {
	Schema   Schema
	Vertices int
	Data     []float32
	Blocks   []Block
}

// Element returns the table as a PLY vertex element.
func (t *VertexTable) Element() ply.Element {
	return ply.Element{
		Name:       VertexElement,
		Properties: t.Schema.Fields(),
		Data:       t.Data,
	}
}

// Timesteps returns the length of the time axis shared by the time-varying
// arrays of a dynamic scene.
func Timesteps(a *params.Archive) (int, error) {
	if a.Means.Rank() != 3 {
		return 0, mismatch(a.Means, "(T, N, 3) for a dynamic scene")
	}
	steps := a.Means.Dim(0)
	for _, arr := range []params.Array{a.Colors, a.Rotations} {
		if arr.Rank() != 3 {
			return 0, mismatch(arr, "(T, N, K) for a dynamic scene")
		}
		if arr.Dim(0) != steps {
			return 0, mismatch(arr, "%d timesteps to match %s", steps, a.Means.Name)
		}
	}
	return steps, nil
}

// BuildTable assembles the vertex records for one timestep. When static is
// true the time-varying arrays are used as-is and timestep is ignored.
func BuildTable(a *params.Archive, timestep int, static bool) (*VertexTable, error) {
	means, colors, rotations := a.Means, a.Colors, a.Rotations
	if static {
		for _, arr := range []params.Array{means, colors, rotations} {
			if arr.Rank() != 2 {
				return nil, mismatch(arr, "(N, K) for a static scene")
			}
		}
	} else {
		steps, err := Timesteps(a)
		if err != nil {
			return nil, err
		}
		if timestep < 0 || timestep >= steps {
			return nil, mismatch(means, "timestep %d within [0, %d)", timestep, steps)
		}
		if means, err = means.Index(timestep); err != nil {
			return nil, err
		}
		if colors, err = colors.Index(timestep); err != nil {
			return nil, err
		}
		if rotations, err = rotations.Index(timestep); err != nil {
			return nil, err
		}
	}

	if means.Dim(1) != 3 {
		return nil, mismatch(means, "(N, 3) positions")
	}
	n := means.Dim(0)

	opacities, err := columns(a.Opacities, n)
	if err != nil {
		return nil, err
	}
	if opacities.Dim(1) != 1 {
		return nil, mismatch(a.Opacities, "(%d, 1) opacities", n)
	}
	scales, err := columns(a.Scales, n)
	if err != nil {
		return nil, err
	}
	for _, arr := range []params.Array{colors, rotations} {
		if arr.Dim(0) != n {
			return nil, mismatch(arr, "%d vertices to match %s", n, a.Means.Name)
		}
	}

	schema := Schema{
		Colors:    colors.Dim(1),
		Scales:    scales.Dim(1) * scaleRepeat,
		Rotations: rotations.Dim(1),
	}
	width := schema.Width()
	data := make([]float32, n*width)
	for i := 0; i < n; i++ {
		row := data[i*width : (i+1)*width]
		off := copy(row, means.Data[i*3:(i+1)*3])
		// normals stay zero
		off += 3
		off += copy(row[off:], rowOf(colors, i))
		row[off] = opacities.Data[i]
		off++
		for _, s := range rowOf(scales, i) {
			for r := 0; r < scaleRepeat; r++ {
				row[off] = s
				off++
			}
		}
		copy(row[off:], rowOf(rotations, i))
	}

	return &VertexTable{
		Schema:   schema,
		Vertices: n,
		Data:     data,
		Blocks: []Block{
			{Name: "xyz", Shape: []int{n, 3}},
			{Name: "normals", Shape: []int{n, 3}},
			{Name: "f_dc", Shape: []int{n, schema.Colors}},
			{Name: "opacities", Shape: []int{n, 1}},
			{Name: "scale", Shape: []int{n, schema.Scales}},
			{Name: "rotation", Shape: []int{n, schema.Rotations}},
		},
	}, nil
}

// columns views a per-vertex array as (n, K), promoting a rank-1 array of
// length n to (n, 1).
func columns(arr params.Array, n int) (params.Array, error) {
	switch arr.Rank() {
	case 1:
		if arr.Dim(0) != n {
			return params.Array{}, mismatch(arr, "%d vertices", n)
		}
		arr.Shape = []int{n, 1}
		return arr, nil
	case 2:
		if arr.Dim(0) != n {
			return params.Array{}, mismatch(arr, "%d vertices", n)
		}
		return arr, nil
	default:
		return params.Array{}, mismatch(arr, "(N,) or (N, K) time-invariant values")
	}
}

func rowOf(arr params.Array, i int) []float32 {
	w := arr.Dim(1)
	return arr.Data[i*w : (i+1)*w]
}
