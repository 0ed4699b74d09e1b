// Package config loads pagepack settings from a TOML file and defines the
// named paper sizes.
//
// A config file holds the same settings as the command-line flags. Every key
// is optional; a key that is present overrides the built-in default, and a
// flag given on the command line overrides the file:
//
//	paper = "a4"
//	dpi = 600
//	border = 5.0
//	margin = 2.0
//	max_image_width = 120.0
//	output = "scans.pdf"
//
//	[cache]
//	url = "redis://localhost:6379/0"
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/units"
)

// File is the content of a config file. Nil pointers and empty strings mean
// "not set".
type File struct {
	Paper          string   `toml:"paper"`
	DPI            *int     `toml:"dpi"`
	Width          *float64 `toml:"width"`
	Height         *float64 `toml:"height"`
	Border         *float64 `toml:"border"`
	Margin         *float64 `toml:"margin"`
	MaxImageWidth  *float64 `toml:"max_image_width"`
	MaxImageHeight *float64 `toml:"max_image_height"`
	Output         string   `toml:"output"`
	SkipUnreadable *bool    `toml:"skip_unreadable"`
	Workers        *int     `toml:"workers"`
	Cache          Cache    `toml:"cache"`
}

// Cache configures the measurement cache.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	URL      string `toml:"url"`
}

// Load reads and validates a config file. Unknown keys are rejected so a
// typo does not silently fall back to a default.
func Load(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path).WithPath(path)
	}
	f, err := Parse(string(data))
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithPath(path)
		}
		return nil, err
	}
	return f, nil
}

// Parse decodes config file content.
func Parse(data string) (*File, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if f.Paper != "" {
		if _, err := LookupPaper(f.Paper); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// =============================================================================
// Paper sizes
// =============================================================================

// Paper is a named page size in portrait orientation.
type Paper struct {
	Name   string
	Width  units.Mm
	Height units.Mm
}

var papers = map[string]Paper{
	"a3":     {Name: "a3", Width: 297, Height: 420},
	"a4":     {Name: "a4", Width: 210, Height: 297},
	"a5":     {Name: "a5", Width: 148, Height: 210},
	"letter": {Name: "letter", Width: 215.9, Height: 279.4},
	"legal":  {Name: "legal", Width: 215.9, Height: 355.6},
}

const landscapeSuffix = "-landscape"

// LookupPaper returns the paper size with the given name, case-insensitively.
// A "-landscape" suffix swaps width and height.
func LookupPaper(name string) (Paper, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	landscape := strings.HasSuffix(key, landscapeSuffix)
	key = strings.TrimSuffix(key, landscapeSuffix)

	p, ok := papers[key]
	if !ok {
		return Paper{}, errors.New(errors.ErrCodeInvalidPaper,
			"unknown paper %q (must be one of: %s)", name, strings.Join(PaperNames(), ", "))
	}
	if landscape {
		p.Name += landscapeSuffix
		p.Width, p.Height = p.Height, p.Width
	}
	return p, nil
}

// PaperNames lists the known paper names in sorted order.
func PaperNames() []string {
	names := make([]string, 0, len(papers))
	for n := range papers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
