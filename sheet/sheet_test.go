package sheet

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(m *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
}

func TestParseSize(t *testing.T) {
	tables := map[string]struct {
		in   string
		size Size
		err  bool
	}{
		"square":   {"32x32", Size{32, 32}, false},
		"upper":    {" 16X8 ", Size{16, 8}, false},
		"zero":     {"0x8", Size{}, true},
		"negative": {"8x-1", Size{}, true},
		"garbage":  {"eight", Size{}, true},
		"partial":  {"8x", Size{}, true},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			size, err := ParseSize(table.in)
			if table.err {
				assert.ErrorIs(t, err, ErrInvalidSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.size, size)
		})
	}
}

func TestGrid(t *testing.T) {
	tables := map[string]struct {
		w, h int
		size Size
		rows int
		cols int
	}{
		"exact":   {64, 32, Size{32, 32}, 1, 2},
		"partial": {70, 33, Size{32, 32}, 2, 3},
		"smaller": {10, 10, Size{32, 32}, 1, 1},
		"single":  {3, 2, Size{1, 1}, 2, 3},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			m := New(image.NewNRGBA(image.Rect(0, 0, table.w, table.h)))
			cells := m.Grid(table.size)
			require.Len(t, cells, table.rows*table.cols)
			assert.Equal(t, table.rows, m.Rows(table.size))
			assert.Equal(t, table.cols, m.Columns(table.size))

			for i, c := range cells {
				assert.Equal(t, Cell{Row: i / table.cols, Column: i % table.cols}, c)
			}
		})
	}
}

func TestTransparent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	fill(src, image.Rect(0, 0, 32, 32), color.NRGBA{0xff, 0, 0, 0xff})
	// Color without alpha is still transparent
	fill(src, image.Rect(32, 0, 64, 32), color.NRGBA{0xff, 0xff, 0xff, 0})
	m := New(src)

	size := Size{32, 32}
	assert.False(t, m.Transparent(Cell{0, 0}.Rect(size)))
	assert.True(t, m.Transparent(Cell{0, 1}.Rect(size)))
	assert.True(t, m.Transparent(Cell{0, 1}.Rect(size)), "classification is repeatable")
	assert.True(t, m.Transparent(Cell{5, 5}.Rect(size)), "outside the image")

	// A single visible pixel is enough
	src.SetNRGBA(63, 31, color.NRGBA{0, 0, 0, 1})
	assert.False(t, New(src).Transparent(Cell{0, 1}.Rect(size)))
}

func TestTransparentClipped(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fill(src, image.Rect(35, 35, 40, 40), color.NRGBA{0, 0xff, 0, 0xff})
	m := New(src)

	size := Size{32, 32}
	assert.False(t, m.Transparent(Cell{1, 1}.Rect(size)))
	assert.True(t, m.Transparent(Cell{0, 1}.Rect(size)))
	assert.Equal(t, uint8(0), m.Alpha(100, 100))
	assert.Equal(t, uint8(0xff), m.Alpha(39, 39))
}

func TestExtract(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fill(src, src.Rect, color.NRGBA{0, 0, 0xff, 0xff})
	m := New(src)

	frame := m.Extract(Cell{1, 1}, Size{32, 32})
	assert.Equal(t, image.Rect(0, 0, 32, 32), frame.Bounds())
	assert.Equal(t, color.NRGBA{0, 0, 0xff, 0xff}, frame.NRGBAAt(7, 7))
	assert.Equal(t, color.NRGBA{}, frame.NRGBAAt(8, 8))
}

func TestNewOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 20, 30))
	src.SetNRGBA(10, 10, color.NRGBA{1, 2, 3, 4})
	m := New(src)

	assert.Equal(t, image.Rect(0, 0, 10, 20), m.Bounds())
	assert.Equal(t, uint8(4), m.Alpha(0, 0))
	assert.Equal(t, Size{10, 20}, m.Size())
}

func TestLoad(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	fill(src, src.Rect, color.NRGBA{0x10, 0x20, 0x30, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, src))
	encoded := b.Bytes()

	m, err := Load(context.Background(), bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, 8, m.Width())
	assert.Equal(t, 4, m.Height())
	assert.Len(t, m.Digest(), 40)

	again, err := Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, m.Digest(), again.Digest())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pr, pw := io.Pipe()
	_, err = Load(ctx, pr)
	assert.ErrorIs(t, err, context.Canceled)

	// The reader is closed so the decode stops
	_, err = pw.Write([]byte{0})
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	_, err = Load(context.Background(), bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

