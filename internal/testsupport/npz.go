package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sbinet/npyio/npy/float16"
)

// NPZEntry describes one array written into a fixture archive. DType
// defaults to "<f4". Data is always given in row-major order; Fortran
// entries are stored column-major.
type NPZEntry struct {
	Name    string
	DType   string
	Shape   []int
	Data    []float64
	Fortran bool
}

// WriteNPZ writes entries as a NumPy .npz archive at path.
func WriteNPZ(t testing.TB, path string, entries ...NPZEntry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		payload, err := encodeNPY(entry)
		if err != nil {
			t.Fatalf("encode %s: %v", entry.Name, err)
		}
		w, err := zw.Create(entry.Name + ".npy")
		if err != nil {
			t.Fatalf("zip entry %s: %v", entry.Name, err)
		}
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("write entry %s: %v", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
}

// Scene sizes a synthetic splat scene. T == 0 produces a static scene with
// no time axis.
type Scene struct {
	T int
	N int
	C int
	S int
	R int
}

// SceneEntries builds the five required arrays for s with deterministic,
// distinct values.
func SceneEntries(s Scene) map[string]NPZEntry {
	timed := func(name string, width, base int) NPZEntry {
		shape := []int{s.N, width}
		steps := 1
		if s.T > 0 {
			shape = []int{s.T, s.N, width}
			steps = s.T
		}
		data := make([]float64, 0, steps*s.N*width)
		for t := 0; t < steps; t++ {
			for n := 0; n < s.N; n++ {
				for k := 0; k < width; k++ {
					data = append(data, float64(base+t*1000+n*10+k)+0.25)
				}
			}
		}
		return NPZEntry{Name: name, Shape: shape, Data: data}
	}
	fixed := func(name string, width, base int) NPZEntry {
		data := make([]float64, 0, s.N*width)
		for n := 0; n < s.N; n++ {
			for k := 0; k < width; k++ {
				data = append(data, float64(base+n*10+k)+0.5)
			}
		}
		return NPZEntry{Name: name, Shape: []int{s.N, width}, Data: data}
	}

	return map[string]NPZEntry{
		"means3D":          timed("means3D", 3, 0),
		"rgb_colors":       timed("rgb_colors", s.C, 100000),
		"logit_opacities":  fixed("logit_opacities", 1, 200000),
		"log_scales":       fixed("log_scales", s.S, 300000),
		"unnorm_rotations": timed("unnorm_rotations", s.R, 400000),
	}
}

// WriteScene writes a synthetic scene archive and returns its entries keyed by name.
func WriteScene(t testing.TB, path string, s Scene) map[string]NPZEntry {
	t.Helper()

	entries := SceneEntries(s)
	list := make([]NPZEntry, 0, len(entries))
	for _, name := range []string{"means3D", "rgb_colors", "logit_opacities", "log_scales", "unnorm_rotations"} {
		list = append(list, entries[name])
	}
	WriteNPZ(t, path, list...)
	return entries
}

func encodeNPY(entry NPZEntry) ([]byte, error) {
	dtype := entry.DType
	if dtype == "" {
		dtype = "<f4"
	}

	values := entry.Data
	if entry.Fortran {
		values = columnMajor(entry.Data, entry.Shape)
	}

	var body bytes.Buffer
	for _, v := range values {
		var err error
		switch dtype {
		case "<f4":
			err = binary.Write(&body, binary.LittleEndian, math.Float32bits(float32(v)))
		case ">f4":
			err = binary.Write(&body, binary.BigEndian, math.Float32bits(float32(v)))
		case "<f8":
			err = binary.Write(&body, binary.LittleEndian, math.Float64bits(v))
		case ">f8":
			err = binary.Write(&body, binary.BigEndian, math.Float64bits(v))
		case "<i4":
			err = binary.Write(&body, binary.LittleEndian, int32(v))
		case "<i8":
			err = binary.Write(&body, binary.LittleEndian, int64(v))
		case "|u1":
			err = body.WriteByte(uint8(v))
		case "<f2":
			err = binary.Write(&body, binary.LittleEndian, float16.New(float32(v)).Uint16())
		case ">f2":
			err = binary.Write(&body, binary.BigEndian, float16.New(float32(v)).Uint16())
		case "<c8":
			err = binary.Write(&body, binary.LittleEndian, complex(float32(v), 0))
		default:
			return nil, fmt.Errorf("fixture dtype %s not supported", dtype)
		}
		if err != nil {
			return nil, err
		}
	}

	dims := make([]string, len(entry.Shape))
	for i, d := range entry.Shape {
		dims[i] = strconv.Itoa(d)
	}
	shape := "(" + strings.Join(dims, ", ") + ")"
	if len(dims) == 1 {
		shape = "(" + dims[0] + ",)"
	}
	order := "False"
	if entry.Fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", dtype, order, shape)

	// magic(6) + version(2) + length(2) + header, padded to 64 bytes and
	// terminated by a newline.
	total := 10 + len(header) + 1
	if rem := total % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	var out bytes.Buffer
	out.WriteString("\x93NUMPY")
	out.Write([]byte{1, 0})
	if err := binary.Write(&out, binary.LittleEndian, uint16(len(header))); err != nil {
		return nil, err
	}
	out.WriteString(header)
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func columnMajor(data []float64, shape []int) []float64 {
	out := make([]float64, 0, len(data))
	idx := make([]int, len(shape))
	for range data {
		c := 0
		for d, n := range shape {
			c = c*n + idx[d]
		}
		out = append(out, data[c])
		for d := range idx {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}
