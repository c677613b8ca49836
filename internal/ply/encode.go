package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Element is a named block of records sharing one property list. Data is
// row-major with len(Properties) values per record.
type Element struct {
	Name       string
	Properties []string
	Data       []float32
}

// Count returns the number of records in the element.
func (e Element) Count() int {
	if len(e.Properties) == 0 {
		return 0
	}
	return len(e.Data) / len(e.Properties)
}

func (e Element) validate() error {
	if strings.TrimSpace(e.Name) == "" || strings.ContainsAny(e.Name, " \t\n") {
		return fmt.Errorf("ply: invalid element name %q", e.Name)
	}
	if len(e.Properties) == 0 {
		return fmt.Errorf("ply: element %s has no properties", e.Name)
	}
	seen := make(map[string]struct{}, len(e.Properties))
	for _, p := range e.Properties {
		if p == "" || strings.ContainsAny(p, " \t\n") {
			return fmt.Errorf("ply: element %s: invalid property name %q", e.Name, p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("ply: element %s: duplicate property %q", e.Name, p)
		}
		seen[p] = struct{}{}
	}
	if len(e.Data)%len(e.Properties) != 0 {
		return fmt.Errorf("ply: element %s: %d values do not divide into records of %d properties", e.Name, len(e.Data), len(e.Properties))
	}
	return nil
}

// Encode writes a complete PLY file containing elements to w.
func Encode(w io.Writer, format Format, elements ...Element) error {
	if len(elements) == 0 {
		return errors.New("ply: no elements to encode")
	}
	for _, el := range elements {
		if err := el.validate(); err != nil {
			return err
		}
	}
	switch format {
	case BinaryLittleEndian, BinaryBigEndian, ASCII:
	default:
		return fmt.Errorf("ply: unsupported format %s", format)
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	if err := writeHeader(bw, format, elements); err != nil {
		return err
	}
	for _, el := range elements {
		var err error
		if format == ASCII {
			err = writeASCII(bw, el)
		} else {
			err = writeBinary(bw, format, el)
		}
		if err != nil {
			return fmt.Errorf("ply: write %s records: %w", el.Name, err)
		}
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, format Format, elements []Element) error {
	var b strings.Builder
	b.WriteString("ply\n")
	fmt.Fprintf(&b, "format %s 1.0\n", format)
	for _, el := range elements {
		fmt.Fprintf(&b, "element %s %d\n", el.Name, el.Count())
		for _, p := range el.Properties {
			fmt.Fprintf(&b, "property float %s\n", p)
		}
	}
	b.WriteString("end_header\n")
	_, err := w.WriteString(b.String())
	return err
}

func writeBinary(w *bufio.Writer, format Format, el Element) error {
	order := format.byteOrder()
	row := make([]byte, 4*len(el.Properties))
	stride := len(el.Properties)
	for start := 0; start < len(el.Data); start += stride {
		for i, v := range el.Data[start : start+stride] {
			order.PutUint32(row[i*4:], math.Float32bits(v))
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeASCII(w *bufio.Writer, el Element) error {
	stride := len(el.Properties)
	buf := make([]byte, 0, 16*stride)
	for start := 0; start < len(el.Data); start += stride {
		buf = buf[:0]
		for i, v := range el.Data[start : start+stride] {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
