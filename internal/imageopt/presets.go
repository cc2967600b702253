package imageopt

import (
	_ "embed"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// PresetName identifies one of the fixed presets.
type PresetName string

const (
	PresetTable    PresetName = "table"
	PresetDetail   PresetName = "detail"
	PresetFullPage PresetName = "fullPage"
)

// Preset bounds the output raster and sets its JPEG quality (0..1).
type Preset struct {
	Name      PresetName `yaml:"-"`
	MaxWidth  int        `yaml:"max_width"`
	MaxHeight int        `yaml:"max_height"`
	Quality   float64    `yaml:"quality"`
}

// JPEGQuality converts the 0..1 quality factor to the 1..100 JPEG scale.
func (p Preset) JPEGQuality() int {
	q := int(math.Round(p.Quality * 100))
	return min(max(q, 1), 100)
}

type presetsFile struct {
	Presets map[PresetName]Preset `yaml:"presets"`
}

var presets = mustLoadPresets(presetsYAML)

func mustLoadPresets(data []byte) map[PresetName]Preset {
	table, err := parsePresets(data)
	if err != nil {
		// Embedded file, so this only happens when the file itself is broken.
		panic("failed to load embedded presets.yaml: " + err.Error())
	}
	for _, required := range []PresetName{PresetTable, PresetDetail, PresetFullPage} {
		if _, ok := table[required]; !ok {
			panic(fmt.Sprintf("embedded presets.yaml is missing preset %q", required))
		}
	}
	return table
}

func parsePresets(data []byte) (map[PresetName]Preset, error) {
	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal presets: %w", err)
	}
	out := make(map[PresetName]Preset, len(f.Presets))
	for name, p := range f.Presets {
		if p.MaxWidth <= 0 || p.MaxHeight <= 0 {
			return nil, fmt.Errorf("preset %s: dimensions must be positive", name)
		}
		if p.Quality <= 0 || p.Quality > 1 {
			return nil, fmt.Errorf("preset %s: quality must be in (0, 1]", name)
		}
		p.Name = name
		out[name] = p
	}
	return out, nil
}

// Lookup returns the preset with the given name.
func Lookup(name PresetName) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// MustPreset returns a built-in preset and panics for unknown names.
// Only use it with the PresetXxx constants.
func MustPreset(name PresetName) Preset {
	p, ok := presets[name]
	if !ok {
		panic(fmt.Sprintf("unknown image preset %q", name))
	}
	return p
}

// Presets returns all presets ordered by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
