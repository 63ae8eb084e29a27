package legend

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/spritemap/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkerboard returns a sheet of rows x cols frames where every visible
// frame has a distinct red value and the cells listed in empty are left
// transparent.
func checkerboard(rows, cols int, size sheet.Size, empty ...sheet.Cell) *sheet.Image {
	skip := make(map[sheet.Cell]bool)
	for _, c := range empty {
		skip[c] = true
	}

	m := image.NewNRGBA(image.Rect(0, 0, cols*size.Width, rows*size.Height))
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := sheet.Cell{Row: row, Column: col}
			if skip[c] {
				continue
			}
			r := c.Rect(size)
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					m.SetNRGBA(x, y, color.NRGBA{uint8(row*cols + col), 0x80, 0x40, 0xff})
				}
			}
		}
	}
	return sheet.New(m)
}

func TestAlphabet(t *testing.T) {
	tables := map[string]struct {
		in  string
		err error
	}{
		"default":   {DefaultCharacters, nil},
		"unicode":   {"αβγ", nil},
		"empty":     {"", ErrEmptyAlphabet},
		"duplicate": {"abca", ErrDuplicateRune},
		"newline":   {"ab\n", ErrUnprintableRune},
		"space":     {"a b", ErrUnprintableRune},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			a, err := NewAlphabet(table.in)
			if table.err != nil {
				assert.ErrorIs(t, err, table.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.in, a.String())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestBuildSingleVisibleCell(t *testing.T) {
	size := sheet.Size{Width: 32, Height: 32}
	m := checkerboard(1, 2, size, sheet.Cell{Row: 0, Column: 1})

	a := Default()
	l := Build(m, size, a)

	require.Equal(t, 1, l.Len())
	e, ok := l.Lookup(a[0])
	require.True(t, ok)
	assert.Equal(t, sheet.Cell{Row: 0, Column: 0}, e.Cell)
	assert.Equal(t, image.Rect(0, 0, 32, 32), e.Image.Bounds())

	r, ok := l.Char(sheet.Cell{Row: 0, Column: 0})
	assert.True(t, ok)
	assert.Equal(t, a[0], r)

	_, ok = l.Char(sheet.Cell{Row: 0, Column: 1})
	assert.False(t, ok)
}

func TestBuildSkipsTransparent(t *testing.T) {
	size := sheet.Size{Width: 4, Height: 4}
	m := checkerboard(3, 3, size, sheet.Cell{Row: 0, Column: 1}, sheet.Cell{Row: 2, Column: 0})

	l := Build(m, size, Alphabet("abcdefghij"))
	require.Equal(t, 7, l.Len())

	want := []sheet.Cell{
		{Row: 0, Column: 0}, {Row: 0, Column: 2},
		{Row: 1, Column: 0}, {Row: 1, Column: 1}, {Row: 1, Column: 2},
		{Row: 2, Column: 1}, {Row: 2, Column: 2},
	}
	for i, e := range l.Entries() {
		assert.Equal(t, rune("abcdefg"[i]), e.Char)
		assert.Equal(t, want[i], e.Cell)
	}

	// The frame pixels come from the right place
	e, _ := l.Lookup('b')
	assert.Equal(t, uint8(2), e.Image.NRGBAAt(0, 0).R)
}

func TestBuildAlphabetExhausted(t *testing.T) {
	size := sheet.Size{Width: 2, Height: 2}
	m := checkerboard(4, 4, size)
	a := Alphabet("xyz")

	l := Build(m, size, a)
	require.Equal(t, a.Len(), l.Len())
	assert.Len(t, l.Frames(), 16)

	seen := make(map[rune]bool)
	for i, e := range l.Entries() {
		assert.False(t, seen[e.Char])
		seen[e.Char] = true
		assert.Equal(t, sheet.Cell{Row: 0, Column: i}, e.Cell)
	}

	// Frames past the alphabet have no character
	_, ok := l.Char(sheet.Cell{Row: 3, Column: 3})
	assert.False(t, ok)
	assert.Equal(t, sheet.Cell{Row: 3, Column: 3}, l.Frames()[15].Cell)
}

func TestBuildDeterministic(t *testing.T) {
	size := sheet.Size{Width: 3, Height: 5}
	m := checkerboard(2, 5, size, sheet.Cell{Row: 1, Column: 1})

	l1 := Build(m, size, Default())
	l2 := Build(m, size, Default())
	assert.Equal(t, l1.Entries(), l2.Entries())
}

func TestAssemble(t *testing.T) {
	size := sheet.Size{Width: 1, Height: 1}
	frames := []Frame{
		{Cell: sheet.Cell{Row: 0, Column: 3}, Image: image.NewNRGBA(image.Rect(0, 0, 1, 1))},
		{Cell: sheet.Cell{Row: 2, Column: 0}, Image: image.NewNRGBA(image.Rect(0, 0, 1, 1))},
	}

	l := Assemble(size, frames, Alphabet("ab"))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, size, l.FrameSize())
	assert.Equal(t, Alphabet("ab"), l.Alphabet())

	e, ok := l.Lookup('b')
	require.True(t, ok)
	assert.Equal(t, sheet.Cell{Row: 2, Column: 0}, e.Cell)

	_, ok = l.Lookup('c')
	assert.False(t, ok)

	empty := Assemble(size, nil, Default())
	assert.Equal(t, 0, empty.Len())
}

func TestBuildRepeatedCharacters(t *testing.T) {
	size := sheet.Size{Width: 4, Height: 4}
	m := checkerboard(1, 3, size)

	l := Build(m, size, Alphabet("aa\nb"))
	require.Equal(t, 2, l.Len())

	entries := l.Entries()
	assert.Equal(t, 'a', entries[0].Char)
	assert.Equal(t, sheet.Cell{Row: 0, Column: 0}, entries[0].Cell)
	assert.Equal(t, 'b', entries[1].Char)
	assert.Equal(t, sheet.Cell{Row: 0, Column: 1}, entries[1].Cell)

	for _, e := range entries {
		found, ok := l.Lookup(e.Char)
		require.True(t, ok)
		assert.Equal(t, e.Cell, found.Cell)
	}

	// The third frame is kept but has no character left
	assert.Len(t, l.Frames(), 3)
	_, ok := l.Char(sheet.Cell{Row: 0, Column: 2})
	assert.False(t, ok)
}

func TestPreview(t *testing.T) {
	size := sheet.Size{Width: 4, Height: 4}
	m := checkerboard(2, 5, size)
	l := Build(m, size, Default())

	bg := color.RGBA{0xff, 0xff, 0xff, 0xff}
	p := l.Preview(PreviewOptions{Scale: 2, Columns: 4, Background: bg})

	// 10 entries over 4 columns is 3 rows
	sw := max(8, 7) + previewPadding*2
	sh := 8 + 13 + previewPadding*2
	assert.Equal(t, image.Rect(0, 0, 4*sw, 3*sh), p.Bounds())

	// First swatch starts after the padding, scaled frame pixel
	assert.Equal(t, bg, p.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0x80, 0x40, 0xff}, p.RGBAAt(previewPadding+7, previewPadding+7))

	// An empty legend still yields a single blank swatch
	empty := Assemble(size, nil, Default()).Preview(PreviewOptions{})
	assert.Equal(t, image.Rect(0, 0, 7+previewPadding*2, 4+13+previewPadding*2), empty.Bounds())
}
