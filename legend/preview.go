package legend

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	previewPadding = 4
	defaultColumns = 8
)

// PreviewOptions controls the palette sheet drawn by Preview.
type PreviewOptions struct {
	Scale      int         // integer magnification of each frame, minimum 1
	Columns    int         // entries per row, defaults to 8
	Background color.Color // nil leaves the sheet transparent
	Foreground color.Color // label color, defaults to black
}

// Preview draws every entry as a swatch: the frame magnified with
// nearest-neighbour scaling and its character printed underneath.
func (l *Legend) Preview(opts PreviewOptions) *image.RGBA {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.Columns < 1 {
		opts.Columns = defaultColumns
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}

	face := basicfont.Face7x13
	label := face.Height

	fw, fh := l.size.Width*opts.Scale, l.size.Height*opts.Scale
	sw := max(fw, face.Advance) + previewPadding*2
	sh := fh + label + previewPadding*2

	cols := min(opts.Columns, max(len(l.entries), 1))
	rows := (len(l.entries) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols*sw, rows*sh))
	if opts.Background != nil {
		draw.Draw(dst, dst.Rect, image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(opts.Foreground),
		Face: face,
	}

	for i, e := range l.entries {
		x := (i%cols)*sw + previewPadding
		y := (i/cols)*sh + previewPadding

		r := image.Rect(x, y, x+fw, y+fh)
		draw.NearestNeighbor.Scale(dst, r, e.Image, e.Image.Bounds(), draw.Over, nil)

		d.Dot = fixed.P(x+(fw-face.Advance)/2, y+fh+face.Ascent)
		d.DrawString(string(e.Char))
	}

	return dst
}
