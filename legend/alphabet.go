package legend

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrEmptyAlphabet is returned for an alphabet with no characters.
	ErrEmptyAlphabet = errors.New("legend: empty alphabet")
	// ErrDuplicateRune is returned when a character appears twice.
	ErrDuplicateRune = errors.New("legend: duplicate character in alphabet")
	// ErrUnprintableRune is returned for control and whitespace characters,
	// which includes the tile map row separator.
	ErrUnprintableRune = errors.New("legend: unprintable character in alphabet")
)

// Alphabet is the ordered set of characters handed out to frames.
type Alphabet []rune

// DefaultCharacters leaves out '.' and space so either can be used as filler
// in a tile map.
const DefaultCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!#$%&*+-=?@^~"

// Default returns a fresh copy of the alphabet used when none is configured.
func Default() Alphabet {
	return Alphabet(DefaultCharacters)
}

// NewAlphabet returns the characters of s as an Alphabet after checking they
// are printable and distinct.
func NewAlphabet(s string) (Alphabet, error) {
	a := Alphabet(s)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the alphabet is non-empty, printable and free of
// duplicates.
func (a Alphabet) Validate() error {
	if len(a) == 0 {
		return ErrEmptyAlphabet
	}

	seen := make(map[rune]struct{}, len(a))
	for _, r := range a {
		if !usable(r) {
			return fmt.Errorf("%w: %q", ErrUnprintableRune, r)
		}
		if _, ok := seen[r]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateRune, r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

func usable(r rune) bool {
	return unicode.IsPrint(r) && !unicode.IsSpace(r)
}

// Len returns the number of characters available.
func (a Alphabet) Len() int {
	return len(a)
}

func (a Alphabet) String() string {
	return string(a)
}
