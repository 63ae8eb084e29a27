/*
Package legend assigns characters to the frames of a sprite sheet.

Cells are scanned in row-major order. Fully transparent cells are skipped
without using up a character; every other cell becomes a frame and the k-th
frame is given the k-th character of the alphabet. Once the alphabet runs
out the remaining frames are still extracted but have no character, so they
can be exported but never placed by a tile map.
*/
package legend

import (
	"image"

	"github.com/bodgit/spritemap/sheet"
)

// Frame is a non-transparent cell and its extracted pixels.
type Frame struct {
	Cell  sheet.Cell
	Image *image.NRGBA
}

// Entry is a frame that has been given a character.
type Entry struct {
	Char rune
	Frame
}

// Legend maps characters to frames and back. It is immutable; a new Legend
// is built whenever the sheet, frame size or alphabet changes.
type Legend struct {
	size     sheet.Size
	alphabet Alphabet
	frames   []Frame
	entries  []Entry
	chars    map[rune]int
	cells    map[sheet.Cell]int
}

// Frames returns every non-transparent frame of m in row-major order.
func Frames(m *sheet.Image, size sheet.Size) []Frame {
	var frames []Frame
	for _, c := range m.Grid(size) {
		if m.Transparent(c.Rect(size)) {
			continue
		}
		frames = append(frames, Frame{
			Cell:  c,
			Image: m.Extract(c, size),
		})
	}
	return frames
}

// Grid returns every cell of m as a frame, transparent or not.
func Grid(m *sheet.Image, size sheet.Size) []Frame {
	cells := m.Grid(size)
	frames := make([]Frame, 0, len(cells))
	for _, c := range cells {
		frames = append(frames, Frame{Cell: c, Image: m.Extract(c, size)})
	}
	return frames
}

// Build scans m and returns its legend.
func Build(m *sheet.Image, size sheet.Size, a Alphabet) *Legend {
	return Assemble(size, Frames(m, size), a)
}

// Assemble hands out the characters of a to frames in order. Frames beyond
// the length of the alphabet are kept but get no entry. Repeated or
// unprintable characters in a are passed over without using up a frame.
func Assemble(size sheet.Size, frames []Frame, a Alphabet) *Legend {
	n := min(len(frames), len(a))

	l := &Legend{
		size:     size,
		alphabet: append(Alphabet(nil), a...),
		frames:   frames,
		entries:  make([]Entry, 0, n),
		chars:    make(map[rune]int, n),
		cells:    make(map[sheet.Cell]int, n),
	}

	next := 0
	for _, f := range frames {
		for next < len(a) {
			if _, ok := l.chars[a[next]]; !ok && usable(a[next]) {
				break
			}
			next++
		}
		if next == len(a) {
			break
		}

		k := len(l.entries)
		l.entries = append(l.entries, Entry{Char: a[next], Frame: f})
		l.chars[a[next]] = k
		l.cells[f.Cell] = k
		next++
	}

	return l
}

// FrameSize returns the size of every frame in the legend.
func (l *Legend) FrameSize() sheet.Size {
	return l.size
}

// Alphabet returns a copy of the alphabet the legend was built with.
func (l *Legend) Alphabet() Alphabet {
	return append(Alphabet(nil), l.alphabet...)
}

// Len returns the number of characters assigned.
func (l *Legend) Len() int {
	return len(l.entries)
}

// Entries returns the assigned entries in scan order.
func (l *Legend) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Frames returns every non-transparent frame, including any that did not
// get a character.
func (l *Legend) Frames() []Frame {
	return append([]Frame(nil), l.frames...)
}

// Lookup returns the entry for character r.
func (l *Legend) Lookup(r rune) (Entry, bool) {
	i, ok := l.chars[r]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Char returns the character assigned to the frame at c.
func (l *Legend) Char(c sheet.Cell) (rune, bool) {
	i, ok := l.cells[c]
	if !ok {
		return 0, false
	}
	return l.entries[i].Char, true
}
