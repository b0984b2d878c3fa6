package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the project root.
const FileName = "liststore.yaml"

// Config represents the optional liststore.yaml configuration.
type Config struct {
	Title  string       `yaml:"title,omitempty"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig contains preview image settings.
type RenderConfig struct {
	Width     int `yaml:"width,omitempty"`
	RowHeight int `yaml:"row_height,omitempty"`
}

// LogConfig contains error reporting settings.
type LogConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	Title      string
	Width      int
	RowHeight  int
	Verbose    bool
}

const (
	defaultWidth     = 320
	defaultRowHeight = 24
	// minRowHeight fits the 13px preview font.
	minRowHeight = 13
)

// LoadOptional reads liststore.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads liststore.yaml (if present) and resolves defaults.
// The module path is read from dir/go.mod when there is one.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = defaultTitle(modulePath, dir)
	}

	width := cfg.Render.Width
	if width == 0 {
		width = defaultWidth
	}
	rowHeight := cfg.Render.RowHeight
	if rowHeight == 0 {
		rowHeight = defaultRowHeight
	}
	if width < 0 {
		return nil, fmt.Errorf("render.width must be positive (got %d)", width)
	}
	if rowHeight < minRowHeight {
		return nil, fmt.Errorf("render.row_height must be at least %d (got %d)", minRowHeight, rowHeight)
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		Title:      title,
		Width:      width,
		RowHeight:  rowHeight,
		Verbose:    cfg.Log.Verbose,
	}, nil
}

// FindProjectRoot walks up from the current directory to the nearest
// directory containing liststore.yaml or go.mod. Outside any project it
// returns the current directory.
func FindProjectRoot() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := start
	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	return modfile.ModulePath(data), nil
}

func defaultTitle(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "list"
	}
	return base
}
