package ply

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Format selects the body encoding of a PLY file.
type Format int

const (
	BinaryLittleEndian Format = iota
	BinaryBigEndian
	ASCII
)

// String returns the keyword used on the header's format line.
func (f Format) String() string {
	switch f {
	case BinaryLittleEndian:
		return "binary_little_endian"
	case BinaryBigEndian:
		return "binary_big_endian"
	case ASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a header keyword to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "binary_little_endian", "binary":
		return BinaryLittleEndian, nil
	case "binary_big_endian":
		return BinaryBigEndian, nil
	case "ascii":
		return ASCII, nil
	default:
		return 0, fmt.Errorf("ply: unsupported format %q", value)
	}
}

func (f Format) byteOrder() binary.ByteOrder {
	if f == BinaryBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
