/*
Package tilemap implements the plain text tile map format.

A tile map is a sequence of rows separated by a single newline. Each
character of a row is one tile; a character with a legend entry places that
frame, anything else leaves the tile empty. Rows may have different lengths
and nothing limits the number of rows or columns.
*/
package tilemap

import (
	"io"
	"strings"

	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/sheet"
)

// Separator divides rows.
const Separator = '\n'

// Filler is written into gaps by FromPlacements. It is never part of the
// default alphabet.
const Filler = '.'

// Placement is a character at a tile position.
type Placement struct {
	Row    int
	Column int
	Char   rune
}

// Cell returns the tile position of the placement.
func (p Placement) Cell() sheet.Cell {
	return sheet.Cell{Row: p.Row, Column: p.Column}
}

// Map is an editable tile map document.
type Map struct {
	b strings.Builder
}

// New returns a Map holding text.
func New(text string) *Map {
	m := new(Map)
	m.b.WriteString(text)
	return m
}

// Set replaces the whole document.
func (m *Map) Set(text string) {
	m.b.Reset()
	m.b.WriteString(text)
}

// Append adds r to the end of the document.
func (m *Map) Append(r rune) {
	m.b.WriteRune(r)
}

// Rows returns the document split into rows.
func (m *Map) Rows() []string {
	return strings.Split(m.b.String(), string(Separator))
}

func (m *Map) String() string {
	return m.b.String()
}

// Placements decodes the document against l. Characters without an entry in
// l are skipped.
func (m *Map) Placements(l *legend.Legend) []Placement {
	var ps []Placement
	for row, line := range m.Rows() {
		col := 0
		for _, r := range line {
			if _, ok := l.Lookup(r); ok {
				ps = append(ps, Placement{Row: row, Column: col, Char: r})
			}
			col++
		}
	}
	return ps
}

// Encode writes the Map m to w. The text form is already canonical so it is
// written unchanged.
func Encode(w io.Writer, m *Map) error {
	_, err := io.WriteString(w, m.String())
	return err
}

// Decode reads a whole tile map document from r.
func Decode(r io.Reader) (*Map, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(string(b)), nil
}

// FromPlacements builds the text that places ps. Gaps are padded with
// filler; rows end after their last placement. When two placements share a
// position the later one wins.
func FromPlacements(ps []Placement, filler rune) *Map {
	var grid [][]rune
	for _, p := range ps {
		if p.Row < 0 || p.Column < 0 {
			continue
		}
		for len(grid) <= p.Row {
			grid = append(grid, nil)
		}
		for len(grid[p.Row]) <= p.Column {
			grid[p.Row] = append(grid[p.Row], filler)
		}
		grid[p.Row][p.Column] = p.Char
	}

	m := new(Map)
	for i, row := range grid {
		if i > 0 {
			m.b.WriteRune(Separator)
		}
		m.b.WriteString(string(row))
	}
	return m
}

// Layout places every entry of l at the cell it was cut from, so rendering
// the result rebuilds the sheet.
func Layout(l *legend.Legend) []Placement {
	entries := l.Entries()
	ps := make([]Placement, 0, len(entries))
	for _, e := range entries {
		ps = append(ps, Placement{Row: e.Cell.Row, Column: e.Cell.Column, Char: e.Char})
	}
	return ps
}
