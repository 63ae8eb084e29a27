package spritemap

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/sheet"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// DB stores built legends so a sheet only has to be scanned once for a given
// frame size and alphabet.
type DB struct {
	db *sql.DB
}

// Sheet describes a stored legend.
type Sheet struct {
	Digest    string
	FrameSize sheet.Size
	Alphabet  legend.Alphabet
	Frames    int
}

// NewDB opens or creates the database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sheet (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, frame_width INTEGER NOT NULL, frame_height INTEGER NOT NULL, alphabet TEXT NOT NULL, UNIQUE(sha1, frame_width, frame_height, alphabet))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (sheet_id INTEGER NOT NULL, seq INTEGER NOT NULL, row_index INTEGER NOT NULL, col_index INTEGER NOT NULL, png BLOB NOT NULL, PRIMARY KEY(sheet_id, seq), FOREIGN KEY(sheet_id) REFERENCES sheet(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// AddLegend stores every frame of l against the sheet digest. Storing the
// same legend twice is a no-op.
func (db *DB) AddLegend(digest string, l *legend.Legend) error {
	size := l.FrameSize()
	alphabet := l.Alphabet().String()

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	switch err := tx.QueryRow("SELECT id FROM sheet WHERE sha1 = ? AND frame_width = ? AND frame_height = ? AND alphabet = ?", digest, size.Width, size.Height, alphabet).Scan(&id); err {
	case sql.ErrNoRows:
	case nil:
		return nil
	default:
		return err
	}

	result, err := tx.Exec("INSERT INTO sheet (sha1, frame_width, frame_height, alphabet) VALUES (?, ?, ?, ?)", digest, size.Width, size.Height, alphabet)
	if err != nil {
		return err
	}
	if id, err = result.LastInsertId(); err != nil {
		return err
	}

	b := new(bytes.Buffer)
	for seq, f := range l.Frames() {
		b.Reset()
		if err := png.Encode(b, f.Image); err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO frame (sheet_id, seq, row_index, col_index, png) VALUES (?, ?, ?, ?, ?)", id, seq, f.Cell.Row, f.Cell.Column, b.Bytes()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindLegend returns the stored legend for the sheet digest, frame size and
// alphabet, or nil if there isn't one.
func (db *DB) FindLegend(digest string, size sheet.Size, a legend.Alphabet) (*legend.Legend, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM sheet WHERE sha1 = ? AND frame_width = ? AND frame_height = ? AND alphabet = ?", digest, size.Width, size.Height, a.String()).Scan(&id); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	rows, err := db.db.Query("SELECT row_index, col_index, png FROM frame WHERE sheet_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []legend.Frame
	for rows.Next() {
		var (
			f legend.Frame
			b []byte
		)
		if err := rows.Scan(&f.Cell.Row, &f.Cell.Column, &b); err != nil {
			return nil, err
		}
		m, err := png.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		f.Image = toNRGBA(m)
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return legend.Assemble(size, frames, a), nil
}

// Sheets lists every stored legend.
func (db *DB) Sheets() ([]Sheet, error) {
	rows, err := db.db.Query("SELECT s.sha1, s.frame_width, s.frame_height, s.alphabet, COUNT(f.seq) FROM sheet AS s LEFT JOIN frame AS f ON f.sheet_id = s.id GROUP BY s.id ORDER BY s.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []Sheet
	for rows.Next() {
		var (
			s        Sheet
			alphabet string
		)
		if err := rows.Scan(&s.Digest, &s.FrameSize.Width, &s.FrameSize.Height, &alphabet, &s.Frames); err != nil {
			return nil, err
		}
		s.Alphabet = legend.Alphabet(alphabet)
		sheets = append(sheets, s)
	}

	return sheets, rows.Err()
}

// DeleteSheet removes every stored legend for the sheet digest.
func (db *DB) DeleteSheet(digest string) error {
	_, err := db.db.Exec("DELETE FROM sheet WHERE sha1 = ?", digest)
	return err
}

func toNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := m.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Rect, m, b.Min, draw.Src)
	return n
}
