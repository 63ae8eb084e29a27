/*
Package sheet implements access to a uniform sprite sheet: a source image
split into a grid of equally sized frames.

The grid always covers the whole image. When the image dimensions are not a
multiple of the frame size the last row and column extend past the image
edge; any pixel sampled outside the image is treated as fully transparent.
*/
package sheet

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned when either dimension of a Size is not positive.
var ErrInvalidSize = errors.New("sheet: invalid size")

// Size is a width and height, used both for frames in pixels and for maps
// in frames.
type Size struct {
	Width  int
	Height int
}

// Validate returns ErrInvalidSize unless both dimensions are positive.
func (s Size) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSize, s)
	}
	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses a size written as WIDTHxHEIGHT, for example "32x32".
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	var (
		size Size
		err  error
	)
	if size.Width, err = strconv.Atoi(w); err != nil {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if size.Height, err = strconv.Atoi(h); err != nil {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	return size, size.Validate()
}

// Cell is the position of a frame in the grid.
type Cell struct {
	Row    int
	Column int
}

// Rect returns the pixel rectangle covered by the cell for frames of size s.
func (c Cell) Rect(s Size) image.Rectangle {
	x, y := c.Column*s.Width, c.Row*s.Height
	return image.Rect(x, y, x+s.Width, y+s.Height)
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Column)
}

// Dimensions returns the number of rows and columns needed to cover an image
// of width w and height h with frames of size s.
func Dimensions(w, h int, s Size) (rows, cols int) {
	if s.Width <= 0 || s.Height <= 0 {
		return 0, 0
	}
	return (h + s.Height - 1) / s.Height, (w + s.Width - 1) / s.Width
}
