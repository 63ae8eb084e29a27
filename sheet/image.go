package sheet

import (
	"context"
	"crypto/sha1"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
)

// Image is a decoded sprite sheet. It is never modified after creation.
type Image struct {
	pix    *image.NRGBA
	digest string
}

// New returns an Image holding a copy of m with its origin moved to (0, 0).
func New(m image.Image) *Image {
	b := m.Bounds()
	pix := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(pix, pix.Rect, m, b.Min, draw.Src)

	h := sha1.New()
	h.Write(pix.Pix)

	return &Image{
		pix:    pix,
		digest: fmt.Sprintf("%X", h.Sum(nil)),
	}
}

// Decode reads an image in any registered format from r. The digest is the
// SHA-1 of the bytes read.
func Decode(r io.Reader) (*Image, error) {
	h := sha1.New()
	tr := io.TeeReader(r, h)

	m, _, err := image.Decode(tr)
	if err != nil {
		return nil, err
	}

	// Hash any trailing bytes the decoder didn't need
	if _, err := io.Copy(io.Discard, tr); err != nil {
		return nil, err
	}

	i := New(m)
	i.digest = fmt.Sprintf("%X", h.Sum(nil))

	return i, nil
}

type decodeResult struct {
	image *Image
	err   error
}

// Load decodes r in the background and returns once the image is fully
// decoded or ctx is done, whichever happens first. If ctx is done first and
// r is an io.Closer it is closed to stop the decode, otherwise the decode
// runs on until r returns.
func Load(ctx context.Context, r io.Reader) (*Image, error) {
	out := make(chan decodeResult, 1)
	go func() {
		defer close(out)
		m, err := Decode(r)
		out <- decodeResult{m, err}
	}()

	select {
	case res := <-out:
		return res.image, res.err
	case <-ctx.Done():
		if c, ok := r.(io.Closer); ok {
			c.Close()
		}
		return nil, ctx.Err()
	}
}

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.pix.Rect.Dx() }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.pix.Rect.Dy() }

// Bounds returns the image bounds, always anchored at (0, 0).
func (i *Image) Bounds() image.Rectangle { return i.pix.Rect }

// Size returns the image dimensions.
func (i *Image) Size() Size { return Size{i.Width(), i.Height()} }

// Digest returns the uppercase hex SHA-1 identifying the image content.
func (i *Image) Digest() string { return i.digest }

// Alpha returns the alpha value at (x, y), or 0 outside the image.
func (i *Image) Alpha(x, y int) uint8 {
	if !(image.Point{x, y}.In(i.pix.Rect)) {
		return 0
	}
	return i.pix.Pix[i.pix.PixOffset(x, y)+3]
}

// Transparent reports whether every pixel of r has an alpha of zero. The
// part of r outside the image counts as transparent.
func (i *Image) Transparent(r image.Rectangle) bool {
	r = r.Intersect(i.pix.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := i.pix.PixOffset(r.Min.X, y) + 3
		for x := r.Min.X; x < r.Max.X; x, o = x+1, o+4 {
			if i.pix.Pix[o] != 0 {
				return false
			}
		}
	}
	return true
}

// Rows returns the number of grid rows for frames of size s.
func (i *Image) Rows(s Size) int {
	rows, _ := Dimensions(i.Width(), i.Height(), s)
	return rows
}

// Columns returns the number of grid columns for frames of size s.
func (i *Image) Columns(s Size) int {
	_, cols := Dimensions(i.Width(), i.Height(), s)
	return cols
}

// Grid returns every cell covering the image in row-major order.
func (i *Image) Grid(s Size) []Cell {
	rows, cols := Dimensions(i.Width(), i.Height(), s)
	cells := make([]Cell, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cells = append(cells, Cell{Row: row, Column: col})
		}
	}
	return cells
}

// Extract returns a copy of the frame at c. The result is always s in size;
// any part of the frame outside the image is left transparent.
func (i *Image) Extract(c Cell, s Size) *image.NRGBA {
	r := c.Rect(s)
	dst := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(dst, dst.Rect, i.pix, r.Min, draw.Src)
	return dst
}
