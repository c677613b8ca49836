package splat

import "strconv"

// Schema is the ordered list of vertex property names.
type Schema struct {
	Colors    int
	Scales    int
	Rotations int
}

// Fields returns the property names: x y z nx ny nz f_dc_* opacity scale_* rot_*.
func (s Schema) Fields() []string {
	fields := make([]string, 0, s.Width())
	fields = append(fields, "x", "y", "z", "nx", "ny", "nz")
	fields = appendIndexed(fields, "f_dc_", s.Colors)
	fields = append(fields, "opacity")
	fields = appendIndexed(fields, "scale_", s.Scales)
	fields = appendIndexed(fields, "rot_", s.Rotations)
	return fields
}

// Width returns the number of float32 values per vertex.
func (s Schema) Width() int {
	return 3 + 3 + s.Colors + 1 + s.Scales + s.Rotations
}

func appendIndexed(dst []string, prefix string, n int) []string {
	for i := 0; i < n; i++ {
		dst = append(dst, prefix+strconv.Itoa(i))
	}
	return dst
}
