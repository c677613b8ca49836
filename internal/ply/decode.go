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

// File is a decoded PLY document.
type File struct {
	Format   Format
	Comments []string
	Elements []Element
}

// Element returns the element with the given name.
func (f *File) Element(name string) (Element, bool) {
	for _, el := range f.Elements {
		if el.Name == name {
			return el, true
		}
	}
	return Element{}, false
}

// Column returns the values of one property across every record of el.
func (e Element) Column(property string) ([]float32, error) {
	idx := -1
	for i, p := range e.Properties {
		if p == property {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("ply: element %s has no property %q", e.Name, property)
	}
	stride := len(e.Properties)
	out := make([]float32, 0, e.Count())
	for start := 0; start < len(e.Data); start += stride {
		out = append(out, e.Data[start+idx])
	}
	return out, nil
}

type elementHeader struct {
	name       string
	count      int
	properties []string
}

// Decode parses a PLY document whose properties are all scalar floats.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	file, headers, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	for _, h := range headers {
		el := Element{
			Name:       h.name,
			Properties: h.properties,
			Data:       make([]float32, h.count*len(h.properties)),
		}
		if file.Format == ASCII {
			err = readASCII(br, el)
		} else {
			err = readBinary(br, file.Format, el)
		}
		if err != nil {
			return nil, fmt.Errorf("ply: read %s records: %w", h.name, err)
		}
		file.Elements = append(file.Elements, el)
	}
	return file, nil
}

func readHeader(br *bufio.Reader) (*File, []elementHeader, error) {
	magic, err := readLine(br)
	if err != nil {
		return nil, nil, fmt.Errorf("ply: read magic: %w", err)
	}
	if magic != "ply" {
		return nil, nil, errors.New("ply: missing magic line")
	}

	file := &File{}
	var headers []elementHeader
	sawFormat := false
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, nil, fmt.Errorf("ply: read header: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("ply: malformed format line %q", line)
			}
			if file.Format, err = ParseFormat(fields[1]); err != nil {
				return nil, nil, err
			}
			if fields[2] != "1.0" {
				return nil, nil, fmt.Errorf("ply: unsupported version %s", fields[2])
			}
			sawFormat = true
		case "comment":
			file.Comments = append(file.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))
		case "obj_info":
		case "element":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("ply: malformed element line %q", line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, nil, fmt.Errorf("ply: invalid element count %q", fields[2])
			}
			headers = append(headers, elementHeader{name: fields[1], count: count})
		case "property":
			if len(headers) == 0 {
				return nil, nil, fmt.Errorf("ply: property before element: %q", line)
			}
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("ply: unsupported property declaration %q", line)
			}
			switch fields[1] {
			case "float", "float32":
			default:
				return nil, nil, fmt.Errorf("ply: unsupported property type %s", fields[1])
			}
			last := &headers[len(headers)-1]
			last.properties = append(last.properties, fields[2])
		case "end_header":
			if !sawFormat {
				return nil, nil, errors.New("ply: header has no format line")
			}
			return file, headers, nil
		default:
			return nil, nil, fmt.Errorf("ply: unknown header keyword %q", fields[0])
		}
	}
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readBinary(br *bufio.Reader, format Format, el Element) error {
	order := format.byteOrder()
	var word [4]byte
	for i := range el.Data {
		if _, err := io.ReadFull(br, word[:]); err != nil {
			return err
		}
		el.Data[i] = math.Float32frombits(order.Uint32(word[:]))
	}
	return nil
}

func readASCII(br *bufio.Reader, el Element) error {
	stride := len(el.Properties)
	for row := 0; row < el.Count(); row++ {
		line, err := readLine(br)
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) != stride {
			return fmt.Errorf("record %d: got %d values, want %d", row, len(fields), stride)
		}
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return fmt.Errorf("record %d: %w", row, err)
			}
			el.Data[row*stride+i] = float32(v)
		}
	}
	return nil
}
