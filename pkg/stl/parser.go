package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gopin/pkg/geometry"
)

// Binary layout sizes in bytes
const (
	binaryHeaderSize = 84
	binaryFacetSize  = 50
	// Upper bound on preallocation when the size is unknown
	maxPrealloc = 1 << 16
)

// ErrTruncated is returned when a binary file is shorter than its header claims
var ErrTruncated = errors.New("truncated binary STL")

// ProgressFunc receives the number of bytes consumed so far and the expected total.
// total is 0 when the size is unknown.
type ProgressFunc func(loaded, total int64)

// Parse reads an STL file and returns a Model.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ParseReader(file, info.Size(), nil)
}

// ParseReader parses STL data from r. size is the expected byte count (0 if unknown);
// it drives progress reporting and bounds the triangle count of binary files.
func ParseReader(r io.Reader, size int64, progress ProgressFunc) (*Model, error) {
	counted := &countingReader{r: r, total: size, progress: progress}
	br := bufio.NewReaderSize(counted, 64*1024)

	header, err := br.Peek(6)
	if err != nil && len(header) == 0 {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	// Binary files may also start with "solid", so ASCII is only assumed when the
	// first facet keyword follows.
	if strings.HasPrefix(string(header), "solid") && looksLikeASCII(br) {
		return parseASCII(br)
	}

	return parseBinary(br, size)
}

// looksLikeASCII peeks past the header line for a facet or endsolid keyword
func looksLikeASCII(br *bufio.Reader) bool {
	peek, _ := br.Peek(512)
	rest := string(peek)
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		// Header line only, e.g. "solid empty"
		return !bytes.ContainsRune(peek, 0)
	}
	rest = strings.TrimSpace(rest)
	return strings.HasPrefix(rest, "facet") || strings.HasPrefix(rest, "endsolid") || rest == ""
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("invalid facet normal: %w", err)
				}
				currentNormal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("vertex with %d coordinates", len(fields)-1)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("invalid vertex: %w", err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// binaryFacet mirrors the 50-byte on-disk record
type binaryFacet struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

// parseBinary parses a binary STL file
func parseBinary(reader io.Reader, size int64) (*Model, error) {
	model := NewModel("")

	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if name := string(bytes.TrimRight(header, "\x00 ")); name != "" {
		model.Name = name
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	// The count is untrusted; never allocate more than the data can hold
	capacity := int64(min(triangleCount, maxPrealloc))
	if size > 0 {
		available := (size - binaryHeaderSize) / binaryFacetSize
		if int64(triangleCount) > available {
			return nil, fmt.Errorf("%w: header claims %d triangles, data holds %d", ErrTruncated, triangleCount, max(available, 0))
		}
		capacity = min(capacity, available)
	}

	model.Triangles = make([]geometry.Triangle, 0, capacity)
	for i := uint32(0); i < triangleCount; i++ {
		var f binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		model.AddTriangle(geometry.NewTriangle(vec(f.Normal), vec(f.V1), vec(f.V2), vec(f.V3)))
	}

	return model, nil
}

func vec(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// countingReader reports progress as bytes flow through it
type countingReader struct {
	r        io.Reader
	loaded   int64
	total    int64
	progress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.loaded += int64(n)
		if c.progress != nil {
			c.progress(c.loaded, c.total)
		}
	}
	return n, err
}
