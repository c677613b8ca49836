package params

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sbinet/npyio/npy"
	"github.com/sbinet/npyio/npy/float16"
	"github.com/sbinet/npyio/npz"
)

const (
	KeyMeans     = "means3D"
	KeyColors    = "rgb_colors"
	KeyOpacities = "logit_opacities"
	KeyScales    = "log_scales"
	KeyRotations = "unnorm_rotations"
)

// Keys maps the scene parameters to archive entry names.
type Keys struct {
	Means     string
	Colors    string
	Opacities string
	Scales    string
	Rotations string
}

// DefaultKeys returns the entry names written by dynamic Gaussian splatting trainers.
func DefaultKeys() Keys {
	return Keys{
		Means:     KeyMeans,
		Colors:    KeyColors,
		Opacities: KeyOpacities,
		Scales:    KeyScales,
		Rotations: KeyRotations,
	}
}

// List returns the entry names in loading order.
func (k Keys) List() []string {
	return []string{k.Means, k.Colors, k.Opacities, k.Scales, k.Rotations}
}

// Archive holds the scene parameters loaded from a single .npz file.
type Archive struct {
	Path      string
	Means     Array
	Colors    Array
	Opacities Array
	Scales    Array
	Rotations Array
}

// Load opens the archive at path and reads the five required arrays. The
// file is closed before Load returns.
func Load(path string, keys Keys) (*Archive, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	index := entryIndex(r)
	read := func(key string) (Array, error) {
		entry, ok := index[key]
		if !ok {
			return Array{}, &MissingKeyError{Archive: path, Key: key}
		}
		return readArray(r, key, entry)
	}

	archive := &Archive{Path: path}
	targets := []*Array{&archive.Means, &archive.Colors, &archive.Opacities, &archive.Scales, &archive.Rotations}
	for i, key := range keys.List() {
		arr, err := read(key)
		if err != nil {
			return nil, err
		}
		*targets[i] = arr
	}
	return archive, nil
}

// Entry describes one archive member. Data is nil when the dtype is not
// convertible; Err then carries the reason.
type Entry struct {
	Array
	Fortran bool
	Err     error
}

// ReadAll reads every entry of the archive, sorted by name. Entries with
// unsupported dtypes are returned with their header information and Err set.
func ReadAll(path string) ([]Entry, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	index := entryIndex(r)
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		hdr := r.Header(index[name])
		if hdr == nil {
			return nil, fmt.Errorf("read header %q: entry not found", name)
		}
		entry := Entry{
			Array: Array{
				Name:  name,
				DType: hdr.Descr.Type,
				Shape: append([]int(nil), hdr.Descr.Shape...),
			},
			Fortran: hdr.Descr.Fortran,
		}
		arr, err := readArray(r, name, index[name])
		if err != nil {
			entry.Err = err
		} else {
			entry.Data = arr.Data
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// entryIndex maps entry names without the .npy suffix to the names the zip
// reader reports.
func entryIndex(r *npz.Reader) map[string]string {
	index := make(map[string]string)
	for _, key := range r.Keys() {
		index[strings.TrimSuffix(key, ".npy")] = key
	}
	return index
}

func readArray(r *npz.Reader, name, entry string) (Array, error) {
	hdr := r.Header(entry)
	if hdr == nil {
		return Array{}, fmt.Errorf("read header %q: entry not found", name)
	}
	kind, size := dtypeKind(hdr.Descr.Type)
	if err := checkKind(name, hdr.Descr.Type, kind); err != nil {
		return Array{}, err
	}

	arr := Array{
		Name:  name,
		DType: hdr.Descr.Type,
		Shape: append([]int(nil), hdr.Descr.Shape...),
	}
	var err error
	if kind == 'f' && size == "2" {
		arr.Data, err = readHalf(r, entry, hdr.Descr.Type)
	} else {
		var raw npy.Array
		if err = r.Read(entry, &raw); err == nil {
			arr.Data, err = toFloat32(raw.Data())
		}
	}
	if err != nil {
		return Array{}, fmt.Errorf("read %q: %w", name, err)
	}
	if len(arr.Data) != elements(arr.Shape) {
		return Array{}, fmt.Errorf("read %q: decoded %d values for shape %s", name, len(arr.Data), arr.ShapeString())
	}
	if hdr.Descr.Fortran && len(arr.Shape) > 1 {
		arr.Data = fortranToC(arr.Data, arr.Shape)
	}
	return arr, nil
}

// dtypeKind splits a descriptor such as "<f4" or "|u1" into its kind
// character and item size.
func dtypeKind(descr string) (byte, string) {
	descr = strings.TrimLeft(descr, "<>|=")
	if descr == "" {
		return 0, ""
	}
	return descr[0], descr[1:]
}

func checkKind(name, dtype string, kind byte) error {
	switch kind {
	case 'f', 'i', 'u':
		return nil
	case 'b':
		return &UnsupportedDTypeError{Key: name, DType: dtype, Reason: "boolean values cannot be converted to float32"}
	case 'c':
		return &UnsupportedDTypeError{Key: name, DType: dtype, Reason: "complex values cannot be converted to float32"}
	default:
		return &UnsupportedDTypeError{Key: name, DType: dtype, Reason: "element type is not numeric"}
	}
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func widen[T number](in []T) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toFloat32(data any) ([]float32, error) {
	switch v := data.(type) {
	case []float32:
		return v, nil
	case []float64:
		return widen(v), nil
	case []float16.Num:
		out := make([]float32, len(v))
		for i, h := range v {
			out[i] = h.Float32()
		}
		return out, nil
	case []int8:
		return widen(v), nil
	case []int16:
		return widen(v), nil
	case []int32:
		return widen(v), nil
	case []int64:
		return widen(v), nil
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	case []uint64:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected element type %T", data)
	}
}

// readHalf decodes a float16 entry from its raw section. The npy reader
// does not map half precision to a Go type, so only the header is parsed
// through it.
func readHalf(r *npz.Reader, entry, dtype string) ([]float32, error) {
	rc, err := r.Open(entry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	if _, err := npy.NewReader(rc); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("half precision payload has odd length %d", len(raw))
	}
	var order binary.ByteOrder = binary.LittleEndian
	if strings.HasPrefix(dtype, ">") {
		order = binary.BigEndian
	}
	out := make([]float32, len(raw)/2)
	for i := range out {
		out[i] = float16.Float16Frombits(order.Uint16(raw[2*i:])).Float32()
	}
	return out, nil
}

// fortranToC reorders column-major values into row-major order.
func fortranToC(data []float32, shape []int) []float32 {
	out := make([]float32, len(data))
	idx := make([]int, len(shape))
	for _, v := range data {
		c := 0
		for d, n := range shape {
			c = c*n + idx[d]
		}
		out[c] = v
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
