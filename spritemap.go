/*
Package spritemap is a library for turning uniform sprite sheets into
character legends and text tile maps.

A Session follows a single editing session: a sheet is loaded, its frames
are given characters, a text map is edited against that legend and rendered
back into an image. Changing the sheet, frame size or alphabet rebuilds the
legend from scratch; rendering never changes the legend.
*/
package spritemap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/sheet"
	"github.com/bodgit/spritemap/tilemap"
	"github.com/charmbracelet/log"
)

var (
	// ErrNoImage is returned by operations that need a loaded sheet.
	ErrNoImage = errors.New("spritemap: no image loaded")
	// ErrUnknownRune is returned when appending a character that has no
	// legend entry.
	ErrUnknownRune = errors.New("spritemap: character has no legend entry")
)

// DefaultMapSize is the canvas size, in frames, used when none is set.
var DefaultMapSize = sheet.Size{Width: 20, Height: 15}

// State is the stage a Session has reached.
type State int

// A Session never rests in StateImageLoaded: Load builds the legend before
// it keeps the sheet.
const (
	StateNoImage State = iota
	StateImageLoaded
	StateLegendBuilt
	StateMapEdited
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateImageLoaded:
		return "image loaded"
	case StateLegendBuilt:
		return "legend built"
	case StateMapEdited:
		return "map edited"
	case StateRendered:
		return "rendered"
	default:
		return "no image"
	}
}

// Option configures a Session.
type Option func(*Session) error

// WithFrameSize sets the frame size applied whenever a sheet is loaded. By
// default the whole sheet is a single frame.
func WithFrameSize(size sheet.Size) Option {
	return func(s *Session) error {
		if err := size.Validate(); err != nil {
			return err
		}
		s.defaultFrame = size
		return nil
	}
}

// WithAlphabet sets the characters handed out to frames.
func WithAlphabet(a legend.Alphabet) Option {
	return func(s *Session) error {
		if err := a.Validate(); err != nil {
			return err
		}
		s.alphabet = a
		return nil
	}
}

// WithMapSize sets the rendered canvas size in frames.
func WithMapSize(size sheet.Size) Option {
	return func(s *Session) error {
		if err := tilemap.ValidateMapSize(size); err != nil {
			return err
		}
		s.mapSize = size
		return nil
	}
}

// WithBackground sets the color the canvas is filled with before rendering.
func WithBackground(c color.Color) Option {
	return func(s *Session) error {
		s.background = c
		return nil
	}
}

// Session holds the sheet, legend and tile map of one editing session.
type Session struct {
	db     *DB
	logger *log.Logger

	defaultFrame sheet.Size
	alphabet     legend.Alphabet
	mapSize      sheet.Size
	background   color.Color

	state  State
	image  *sheet.Image
	frame  sheet.Size
	legend *legend.Legend
	tiles  *tilemap.Map
}

// New returns an empty Session. db may be nil, otherwise it is used to
// remember legends between sessions.
func New(db *DB, logger *log.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		db:       db,
		logger:   logger,
		alphabet: legend.Default(),
		mapSize:  DefaultMapSize,
		tiles:    tilemap.New(""),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// State returns the current stage of the session.
func (s *Session) State() State {
	return s.state
}

// Load decodes a sprite sheet from r and builds its legend. The tile map is
// kept. On error the session is left as it was.
func (s *Session) Load(ctx context.Context, r io.Reader) error {
	m, err := sheet.Load(ctx, r)
	if err != nil {
		return err
	}
	s.logger.Debug("Loaded sheet", "digest", m.Digest(), "size", m.Size())

	frame := s.defaultFrame
	if frame == (sheet.Size{}) {
		frame = m.Size()
	}

	l, err := s.buildLegend(m, frame, s.alphabet)
	if err != nil {
		return err
	}

	s.image = m
	s.commit(frame, s.alphabet, l)

	return nil
}

// Image returns the loaded sheet, or nil.
func (s *Session) Image() *sheet.Image {
	return s.image
}

// FrameSize returns the current frame size.
func (s *Session) FrameSize() sheet.Size {
	return s.frame
}

// SetFrameSize changes the frame size and rebuilds the legend. On error the
// frame size and legend are unchanged.
func (s *Session) SetFrameSize(size sheet.Size) error {
	if err := size.Validate(); err != nil {
		return err
	}
	if s.image == nil {
		s.frame = size
		return nil
	}

	l, err := s.buildLegend(s.image, size, s.alphabet)
	if err != nil {
		return err
	}
	s.commit(size, s.alphabet, l)

	return nil
}

// SetAlphabet changes the alphabet and rebuilds the legend. On error the
// alphabet and legend are unchanged.
func (s *Session) SetAlphabet(a legend.Alphabet) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if s.image == nil {
		s.alphabet = a
		return nil
	}

	l, err := s.buildLegend(s.image, s.frame, a)
	if err != nil {
		return err
	}
	s.commit(s.frame, a, l)

	return nil
}

// MapSize returns the rendered canvas size in frames.
func (s *Session) MapSize() sheet.Size {
	return s.mapSize
}

// SetMapSize changes the rendered canvas size.
func (s *Session) SetMapSize(size sheet.Size) error {
	if err := tilemap.ValidateMapSize(size); err != nil {
		return err
	}
	s.mapSize = size
	return nil
}

// buildLegend returns the legend of m, from the database when it has one.
// It touches no session state besides the database.
func (s *Session) buildLegend(m *sheet.Image, frame sheet.Size, a legend.Alphabet) (*legend.Legend, error) {
	var (
		l   *legend.Legend
		err error
	)

	if s.db != nil {
		if l, err = s.db.FindLegend(m.Digest(), frame, a); err != nil {
			return nil, err
		}
	}

	if l != nil {
		s.logger.Debug("Reused stored legend", "frame", frame, "entries", l.Len())
		return l, nil
	}

	l = legend.Build(m, frame, a)
	if s.db != nil {
		if err := s.db.AddLegend(m.Digest(), l); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("Built legend", "frame", frame, "frames", len(l.Frames()), "entries", l.Len())

	return l, nil
}

func (s *Session) commit(frame sheet.Size, a legend.Alphabet, l *legend.Legend) {
	if n := len(l.Frames()) - l.Len(); n > 0 {
		s.logger.Warn("Alphabet exhausted, frames are not addressable", "frames", n, "alphabet", a.Len())
	}

	s.frame = frame
	s.alphabet = a
	s.legend = l
	s.state = StateLegendBuilt
}

// Legend returns the current legend, or nil if no sheet is loaded.
func (s *Session) Legend() *legend.Legend {
	return s.legend
}

// Frames returns the frames for export. With all set every cell of the grid
// is returned, including transparent ones.
func (s *Session) Frames(all bool) ([]legend.Frame, error) {
	if s.image == nil || s.legend == nil {
		return nil, ErrNoImage
	}
	if all {
		return legend.Grid(s.image, s.frame), nil
	}
	return s.legend.Frames(), nil
}

// Map returns the tile map text.
func (s *Session) Map() string {
	return s.tiles.String()
}

// Edit replaces the tile map text.
func (s *Session) Edit(text string) {
	s.tiles.Set(text)
	s.edited()
}

// Append adds r to the end of the tile map. r must have a legend entry.
func (s *Session) Append(r rune) error {
	if s.legend == nil {
		return ErrNoImage
	}
	if _, ok := s.legend.Lookup(r); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRune, r)
	}
	s.tiles.Append(r)
	s.edited()
	return nil
}

// AppendRow starts a new row in the tile map.
func (s *Session) AppendRow() {
	s.tiles.Append(tilemap.Separator)
	s.edited()
}

func (s *Session) edited() {
	if s.state >= StateLegendBuilt {
		s.state = StateMapEdited
	}
}

// Placements decodes the tile map against the current legend.
func (s *Session) Placements() ([]tilemap.Placement, error) {
	if s.legend == nil {
		return nil, ErrNoImage
	}
	return s.tiles.Placements(s.legend), nil
}

// Render draws the tile map. It returns ErrNoImage and changes nothing when
// no sheet is loaded.
func (s *Session) Render() (*image.RGBA, error) {
	ps, err := s.Placements()
	if err != nil {
		return nil, err
	}

	out, err := tilemap.Render(ps, s.legend, s.mapSize, tilemap.Options{Background: s.background})
	if err != nil {
		return nil, err
	}
	s.state = StateRendered
	s.logger.Debug("Rendered map", "placements", len(ps), "size", out.Bounds().Size())

	return out, nil
}
