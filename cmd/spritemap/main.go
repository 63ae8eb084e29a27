package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/spritemap"
	"github.com/bodgit/spritemap/export"
	"github.com/bodgit/spritemap/legend"
	"github.com/bodgit/spritemap/tilemap"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const defaultDB = "spritemap.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "spritemap"
	app.Usage = "Sprite sheet splitting and text tile map utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   filepath.Join(cwd, defaultConfig),
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SPRITEMAP_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to legend database",
		},
		&cli.StringFlag{
			Name:    "frame",
			Aliases: []string{"f"},
			Usage:   "frame size as WIDTHxHEIGHT",
		},
		&cli.StringFlag{
			Name:  "alphabet",
			Usage: "characters assigned to frames, in order",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "split",
			Usage:     "Split a sprite sheet into one PNG per frame",
			ArgsUsage: "SHEET",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "frames.zip",
					Usage:   "write frames to this ZIP archive",
				},
				&cli.StringFlag{
					Name:  "dir",
					Usage: "write frames into this directory instead of an archive",
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "include fully transparent frames",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce each frame to this many colors",
				},
				&cli.IntFlag{
					Name:  "workers",
					Usage: "number of frames written in parallel",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, cfg, closer, err := openSession(c, c.IsSet("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				opts := export.Options{Colors: cfg.Colors}

				if dir := c.String("dir"); dir != "" {
					if err := s.Export(c.Context, dir, c.Bool("all"), cfg.Workers, opts); err != nil {
						return cli.Exit(err, 1)
					}
					return nil
				}

				frames, err := s.Frames(c.Bool("all"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writeFile(c.String("output"), func(f *os.File) error {
					return export.Archive(f, frames, opts)
				}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "legend",
			Usage:     "Print the character assigned to each frame",
			ArgsUsage: "SHEET",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "preview",
					Usage: "also draw the legend as a PNG palette sheet",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 2,
					Usage: "magnification of frames in the preview",
				},
				&cli.StringFlag{
					Name:  "layout",
					Usage: "also write a tile map that rebuilds the sheet",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, cfg, closer, err := openSession(c, c.IsSet("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				l := s.Legend()

				w := bufio.NewWriter(c.App.Writer)
				for _, e := range l.Entries() {
					fmt.Fprintf(w, "%c\t%d\t%d\n", e.Char, e.Cell.Row, e.Cell.Column)
				}
				if err := w.Flush(); err != nil {
					return cli.Exit(err, 1)
				}

				if file := c.String("preview"); file != "" {
					bg, err := cfg.BackgroundColor()
					if err != nil {
						return cli.Exit(err, 1)
					}
					preview := l.Preview(legend.PreviewOptions{Scale: c.Int("scale"), Background: bg})
					if err := export.WriteFile(file, preview, export.Options{Colors: cfg.Colors}); err != nil {
						return cli.Exit(err, 1)
					}
				}

				if file := c.String("layout"); file != "" {
					m := tilemap.FromPlacements(tilemap.Layout(l), tilemap.Filler)
					if err := writeFile(file, func(f *os.File) error {
						return tilemap.Encode(f, m)
					}); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:      "render",
			Usage:     "Render a text tile map using the frames of a sprite sheet",
			ArgsUsage: "SHEET MAP",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "map.png",
					Usage:   "rendered image",
				},
				&cli.StringFlag{
					Name:  "map",
					Usage: "canvas size in frames as WIDTHxHEIGHT",
				},
				&cli.StringFlag{
					Name:  "background",
					Usage: "fill the canvas with this hex color",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce the image to this many colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, cfg, closer, err := openSession(c, c.IsSet("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				m, err := readMap(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				s.Edit(m.String())

				out, err := s.Render()
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := export.WriteFile(c.String("output"), out, export.Options{Colors: cfg.Colors}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "import",
			Usage:     "Store the legend of a sprite sheet in the database",
			ArgsUsage: "SHEET",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, _, closer, err := openSession(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				fmt.Fprintf(c.App.Writer, "%s\t%s\t%d\n", s.Image().Digest(), s.FrameSize(), s.Legend().Len())

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List legends stored in the database",
			Action: func(c *cli.Context) error {
				db, err := spritemap.NewDB(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				sheets, err := db.Sheets()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, sh := range sheets {
					fmt.Fprintf(c.App.Writer, "%s\t%s\t%d\t%s\n", sh.Digest, sh.FrameSize, sh.Frames, sh.Alphabet)
				}

				return nil
			},
		},
		{
			Name:      "forget",
			Usage:     "Remove every stored legend for a sheet digest",
			ArgsUsage: "DIGEST",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := spritemap.NewDB(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				if err := db.DeleteSheet(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
