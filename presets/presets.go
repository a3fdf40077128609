// Package presets holds named volume-size presets a caller can request by
// slug instead of picking a raw byte count, loaded from an embedded CSV the
// same way the wider driver ecosystem loads its predefined disk geometries.
package presets

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset is one named volume size.
type Preset struct {
	Slug        string `csv:"slug"`
	Name        string `csv:"name"`
	TotalBytes  int64  `csv:"total_bytes"`
	Description string `csv:"description"`
}

//go:embed presets.csv
var rawCSV string

var (
	bySlug []Preset
	index  = make(map[string]int)
)

func init() {
	err := gocsv.UnmarshalToCallback(strings.NewReader(rawCSV), func(row Preset) error {
		if _, exists := index[row.Slug]; exists {
			return fmt.Errorf("duplicate preset slug %q", row.Slug)
		}
		index[row.Slug] = len(bySlug)
		bySlug = append(bySlug, row)
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// GetPreset looks up a preset by slug.
func GetPreset(slug string) (Preset, error) {
	i, ok := index[slug]
	if !ok {
		return Preset{}, fmt.Errorf("no preset named %q", slug)
	}
	return bySlug[i], nil
}

// Slugs returns every known preset's slug, in the order presets.csv lists
// them, for building CLI help text.
func Slugs() []string {
	slugs := make([]string, 0, len(bySlug))
	for _, p := range bySlug {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}
