package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCell splits a grid cell name of the form C<x>_<y> into its
// coordinates.
func ParseCell(name string) (x, y int, err error) {
	rest, ok := strings.CutPrefix(name, "C")
	if !ok {
		return 0, 0, fmt.Errorf("cell %q: missing C prefix", name)
	}
	xs, ys, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("cell %q: missing _ separator", name)
	}
	if x, err = strconv.Atoi(xs); err != nil {
		return 0, 0, fmt.Errorf("cell %q: bad x: %w", name, err)
	}
	if y, err = strconv.Atoi(ys); err != nil {
		return 0, 0, fmt.Errorf("cell %q: bad y: %w", name, err)
	}
	return x, y, nil
}

// FormatCell is the inverse of ParseCell.
func FormatCell(x, y int) string {
	return "C" + strconv.Itoa(x) + "_" + strconv.Itoa(y)
}
