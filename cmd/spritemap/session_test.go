package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/spritemap/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("config", filepath.Join(t.TempDir(), defaultConfig), "")
	set.String("frame", "", "")
	set.String("map", "", "")
	set.Int("workers", 0, "")
	require.NoError(t, set.Parse(args))

	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(newContext(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = loadConfig(newContext(t, "-frame", "8x8", "-workers", "2"))
	require.NoError(t, err)
	assert.Equal(t, "8x8", cfg.Frame)
	assert.Equal(t, 2, cfg.Workers)

	_, err = loadConfig(newContext(t, "-map", "wide"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), defaultConfig)
	require.NoError(t, os.WriteFile(file, []byte("frame = \"16x16\"\n"), 0644))

	cfg, err = loadConfig(newContext(t, "-config", file))
	require.NoError(t, err)
	assert.Equal(t, "16x16", cfg.Frame)

	_, err = loadConfig(newContext(t, "-config", filepath.Join(t.TempDir(), "missing.toml")))
	assert.Error(t, err)
}

func TestMapFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "map.txt")

	require.NoError(t, writeFile(file, func(f *os.File) error {
		_, err := f.WriteString("ab\nba")
		return err
	}))

	m, err := readMap(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "ba"}, m.Rows())

	_, err = readMap(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
