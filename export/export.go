/*
Package export writes frames and rendered maps as PNG images.

Images can optionally be reduced to a small palette using median cut
quantization before being written. Palette index 0 is always fully
transparent so empty areas survive the reduction.
*/
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/sheet"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/klauspost/compress/zip"
)

const maxColors = 256

var errTooManyColors = fmt.Errorf("export: more than %d colors", maxColors)

// Options control how images are written.
type Options struct {
	// Colors, when positive, reduces the image to at most this many colors
	// including the transparent entry.
	Colors int
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	if o.Colors > maxColors {
		return errTooManyColors
	}
	if o.Colors < 0 {
		return errors.New("export: negative color count")
	}
	return nil
}

// Quantize reduces m to a palette of at most n colors where entry 0 is
// transparent.
func Quantize(m image.Image, n int) *image.Paletted {
	b := m.Bounds()
	if n < 2 {
		n = 2
	}

	q := quantize.MedianCutQuantizer{}

	p := make(color.Palette, 1, n)
	p[0] = color.Transparent
	p = q.Quantize(p, m)

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// Encode writes m to w as a PNG.
func Encode(w io.Writer, m image.Image, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Colors > 0 {
		m = Quantize(m, opts.Colors)
	}
	return png.Encode(w, m)
}

// WriteFile writes m to the named file as a PNG.
func WriteFile(file string, m image.Image, opts Options) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := Encode(f, m, opts); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Filename returns the name a frame is exported under.
func Filename(c sheet.Cell) string {
	return fmt.Sprintf("frame_%d_%d.png", c.Row, c.Column)
}

// Archive writes frames to w as a ZIP file with one PNG per frame.
func Archive(w io.Writer, frames []legend.Frame, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, f := range frames {
		fw, err := zw.Create(Filename(f.Cell))
		if err != nil {
			return err
		}
		if err := Encode(fw, f.Image, opts); err != nil {
			return err
		}
	}

	return zw.Close()
}
