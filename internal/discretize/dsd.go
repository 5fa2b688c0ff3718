package discretize

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
)

// dsdFields is the number of values per disk line.
const dsdFields = 7

// ReadDSD parses disks from r. Values may be separated by whitespace or
// commas. Blank lines and lines starting with '#' are ignored.
func ReadDSD(r io.Reader) ([]geometry.Disk, error) {
	var disks []geometry.Disk
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) != dsdFields {
			return nil, fmt.Errorf("dsd line %d: expected %d values, got %d", lineNo, dsdFields, len(fields))
		}
		var v [dsdFields]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("dsd line %d: value %d: %w", lineNo, i+1, err)
			}
			v[i] = x
		}
		if v[6] < 0 {
			return nil, fmt.Errorf("dsd line %d: negative radius %v", lineNo, v[6])
		}
		disks = append(disks, geometry.Disk{
			Center: r3.Vec{X: v[0], Y: v[1], Z: v[2]},
			Normal: r3.Vec{X: v[3], Y: v[4], Z: v[5]},
			Radius: v[6],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dsd: %w", err)
	}
	return disks, nil
}

// WriteDSD writes one space separated line per disk.
func WriteDSD(w io.Writer, disks []geometry.Disk) error {
	bw := bufio.NewWriter(w)
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	for _, d := range disks {
		_, err := fmt.Fprintf(bw, "%s %s %s %s %s %s %s\n",
			f(d.Center.X), f(d.Center.Y), f(d.Center.Z),
			f(d.Normal.X), f(d.Normal.Y), f(d.Normal.Z),
			f(d.Radius))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
