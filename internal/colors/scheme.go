package colors

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Color is a terminal color: "#rrggbb" or an ANSI index.
type Color = lipgloss.Color

const (
	Black  Color = "#000000"
	White  Color = "#ffffff"
	Gray   Color = "#808080"
	Red    Color = "#ef4444"
	Orange Color = "#f97316"
	Yellow Color = "#eab308"
	Green  Color = "#22c55e"
	Cyan   Color = "#06b6d4"
	Blue   Color = "#3b82f6"
	Purple Color = "#a855f7"
	Pink   Color = "#ec4899"
)

// Palette is what the color picker offers.
var Palette = []struct {
	Name  string
	Color Color
}{
	{"black", Black}, {"white", White}, {"gray", Gray}, {"red", Red},
	{"orange", Orange}, {"yellow", Yellow}, {"green", Green}, {"cyan", Cyan},
	{"blue", Blue}, {"purple", Purple}, {"pink", Pink},
}

// Defaults lists every named color the editor draws with. Names are stable
// because overrides are persisted under them.
var Defaults = map[string]Color{
	"road":                Gray,
	"road/primary":        White,
	"intersection":        Gray,
	"intersection/stop":   Red,
	"intersection/signal": Yellow,
	"building":            Orange,
	"car":                 Cyan,
	"car/parked":          Blue,
	"turn":                Gray,
	"selected":            Blue,
	"search result":       Red,
	"following":           Pink,
	"activity/low":        Green,
	"activity/medium":     Yellow,
	"activity/high":       Red,
	"associated":          Purple,
	"route":               Pink,
	"current turn":        Green,
	"chokepoint":          Red,
	"osm/primary":         Yellow,
	"osm/residential":     Green,
	"osm/other":           Gray,
	"floodfill/visited":   Green,
	"floodfill/queued":    Yellow,
	"geom problem":        Red,
	"neighborhood":        Purple,
	"signal/green turn":   Green,
	"signal/red turn":     Red,
	"stop sign/stop":      Red,
	"stop sign/go":        Green,
	"diff/primary":        Cyan,
	"diff/secondary":      Pink,
	"debug/info":          White,
}

// Store persists overrides.
type Store interface {
	SaveColor(name string, c Color) error
}

// Scheme resolves named colors. Lookups never mutate; only Set does.
type Scheme struct {
	overrides map[string]Color
	store     Store
}

func NewScheme(overrides map[string]Color, store Store) *Scheme {
	cp := make(map[string]Color, len(overrides))
	for k, v := range overrides {
		cp[k] = v
	}
	return &Scheme{overrides: cp, store: store}
}

// Get returns the override for name, then its default, then white.
func (s *Scheme) Get(name string) Color {
	if c, ok := s.overrides[name]; ok {
		return c
	}
	if c, ok := Defaults[name]; ok {
		return c
	}
	return White
}

// GetDef is Get with a caller-supplied fallback for names outside Defaults.
func (s *Scheme) GetDef(name string, def Color) Color {
	if c, ok := s.overrides[name]; ok {
		return c
	}
	if c, ok := Defaults[name]; ok {
		return c
	}
	return def
}

// Set overrides name and persists it. Store failures are logged; the
// in-memory override still applies.
func (s *Scheme) Set(name string, c Color) {
	s.overrides[name] = c
	if s.store == nil {
		return
	}
	if err := s.store.SaveColor(name, c); err != nil {
		logrus.WithError(err).WithField("color", name).Warn("couldn't persist color override")
	}
}

// Names lists every known color name, sorted.
func (s *Scheme) Names() []string {
	seen := make(map[string]bool, len(Defaults)+len(s.overrides))
	var out []string
	for name := range Defaults {
		seen[name] = true
		out = append(out, name)
	}
	for name := range s.overrides {
		if !seen[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
