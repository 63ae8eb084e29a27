package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/bodgit/spritemap"
	"github.com/bodgit/spritemap/config"
	"github.com/bodgit/spritemap/tilemap"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const defaultConfig = config.Filename

func newLogger(c *cli.Context) *log.Logger {
	level := log.InfoLevel
	if c.Bool("verbose") {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// loadConfig reads the configuration file, if there is one, and applies any
// flags given on the command line over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	switch {
	case errors.Is(err, fs.ErrNotExist) && !c.IsSet("config"):
		cfg = config.Default()
	case err != nil:
		return config.Config{}, err
	}

	for name, value := range map[string]*string{
		"frame":      &cfg.Frame,
		"alphabet":   &cfg.Alphabet,
		"map":        &cfg.Map,
		"background": &cfg.Background,
	} {
		if c.IsSet(name) {
			*value = c.String(name)
		}
	}
	if c.IsSet("colors") {
		cfg.Colors = c.Int("colors")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}

	return cfg, cfg.Validate()
}

// openSession creates a session from the configuration and loads the sheet
// named by the first argument.
func openSession(c *cli.Context, useDB bool) (*spritemap.Session, config.Config, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	logger := newLogger(c)

	var opts []spritemap.Option

	frame, err := cfg.FrameSize()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	if frame.Width > 0 {
		opts = append(opts, spritemap.WithFrameSize(frame))
	}

	a, err := cfg.Characters()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	opts = append(opts, spritemap.WithAlphabet(a))

	size, err := cfg.MapSize()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	opts = append(opts, spritemap.WithMapSize(size))

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	opts = append(opts, spritemap.WithBackground(bg))

	var db *spritemap.DB
	closer := func() {}
	if useDB {
		if db, err = spritemap.NewDB(c.String("db")); err != nil {
			return nil, config.Config{}, nil, err
		}
		closer = func() { db.Close() }
	}

	s, err := spritemap.New(db, logger, opts...)
	if err != nil {
		closer()
		return nil, config.Config{}, nil, err
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		closer()
		return nil, config.Config{}, nil, err
	}
	defer f.Close()

	if err := s.Load(c.Context, f); err != nil {
		closer()
		return nil, config.Config{}, nil, err
	}

	return s, cfg, closer, nil
}

// readMap reads a tile map from file, or standard input for "-".
func readMap(file string) (*tilemap.Map, error) {
	if file == "-" {
		return tilemap.Decode(os.Stdin)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return tilemap.Decode(f)
}

func writeFile(file string, fn func(*os.File) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := fn(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
