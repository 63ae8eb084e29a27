package tilemap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/sheet"
)

// Options controls how a map is rendered.
type Options struct {
	// Background fills the canvas before any frame is drawn. nil leaves it
	// transparent.
	Background color.Color
}

// MaxPixels is the largest canvas Render will allocate.
const MaxPixels = 1 << 28

// ErrCanvasTooLarge is returned when a canvas would exceed MaxPixels.
var ErrCanvasTooLarge = errors.New("tilemap: canvas too large")

// Canvas returns the bounds of a map of size frames where each frame is fs
// pixels.
func Canvas(size, fs sheet.Size) (image.Rectangle, error) {
	w, h := max(size.Width, 0), max(size.Height, 0)
	fw, fh := max(fs.Width, 0), max(fs.Height, 0)

	if (fw > 0 && w > MaxPixels/fw) || (fh > 0 && h > MaxPixels/fh) {
		return image.Rectangle{}, fmt.Errorf("%w: %s frames of %s", ErrCanvasTooLarge, size, fs)
	}
	w, h = w*fw, h*fh
	if h > 0 && w > MaxPixels/h {
		return image.Rectangle{}, fmt.Errorf("%w: %s frames of %s", ErrCanvasTooLarge, size, fs)
	}

	return image.Rect(0, 0, w, h), nil
}

// ValidateMapSize checks size is positive and small enough to render with
// frames of a single pixel.
func ValidateMapSize(size sheet.Size) error {
	if err := size.Validate(); err != nil {
		return err
	}
	_, err := Canvas(size, sheet.Size{Width: 1, Height: 1})
	return err
}

// Render composites ps onto a canvas of size frames, each frame the size of
// the frames in l. Placements are drawn in order over what is already
// there; any that fall outside the canvas are clipped.
func Render(ps []Placement, l *legend.Legend, size sheet.Size, opts Options) (*image.RGBA, error) {
	fs := l.FrameSize()

	bounds, err := Canvas(size, fs)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(bounds)

	if opts.Background != nil {
		draw.Draw(dst, dst.Rect, image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	for _, p := range ps {
		e, ok := l.Lookup(p.Char)
		if !ok {
			continue
		}
		r := p.Cell().Rect(fs)
		draw.Draw(dst, r, e.Image, e.Image.Bounds().Min, draw.Over)
	}

	return dst, nil
}
