package tunnel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
	"github.com/banshee-data/minball/internal/monitoring"
)

// maxPDBSize caps tunnel files read from disk.
const maxPDBSize = 64 * 1024 * 1024

// LoadPDB reads tunnel spheres from CAVER PDB output. Every ATOM or HETATM
// record is one sphere: whitespace fields 6-8 hold the centre and field 9
// the radius. Other records are ignored.
func LoadPDB(r io.Reader) (*Tunnel, error) {
	var spheres []geometry.Sphere
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		words := strings.Fields(scanner.Text())
		if len(words) == 0 || (words[0] != "ATOM" && words[0] != "HETATM") {
			continue
		}
		if len(words) < 10 {
			return nil, fmt.Errorf("line %d: expected at least 10 fields, got %d", lineNo, len(words))
		}
		var vals [4]float64
		for i := range vals {
			f, err := strconv.ParseFloat(words[6+i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d: %w", lineNo, 6+i, err)
			}
			vals[i] = f
		}
		if vals[3] < 0 {
			return nil, fmt.Errorf("line %d: negative radius %g", lineNo, vals[3])
		}
		spheres = append(spheres, geometry.Sphere{
			Center: r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
			Radius: vals[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read PDB: %w", err)
	}
	if len(spheres) == 0 {
		return nil, fmt.Errorf("no ATOM records found")
	}
	monitoring.Logf("[tunnel] loaded %d spheres", len(spheres))
	return New(spheres), nil
}

// LoadPDBFile opens path and reads it with LoadPDB.
func LoadPDBFile(path string) (*Tunnel, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tunnel file: %w", err)
	}
	if info.Size() > maxPDBSize {
		return nil, fmt.Errorf("tunnel file too large: %d bytes (max %d)", info.Size(), maxPDBSize)
	}
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open tunnel file: %w", err)
	}
	defer f.Close()

	t, err := LoadPDB(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return t, nil
}
