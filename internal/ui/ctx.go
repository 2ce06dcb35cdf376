package ui

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/world"
)

// RenderingHints are outputs a plugin may set while handling an event. The
// frame loop reads them after dispatch.
type RenderingHints struct {
	OSD                  []string
	RecalculateSelection bool
	// LaunchABTest asks the loader to rebuild primary and secondary for a test.
	LaunchABTest *world.ABTest
	Quit         bool
}

func (h *RenderingHints) AddOSD(line string) { h.OSD = append(h.OSD, line) }

// PluginCtx is the mutable view of the world handed to exactly one plugin
// call. Plugins must not keep it past that call.
type PluginCtx struct {
	Primary   *PerMapUI
	Secondary *PerMapUI // nil unless an A/B test is loaded
	Canvas    *render.Canvas
	CS        *colors.Scheme
	Input     *input.UserInput
	Hints     *RenderingHints
}

// Ctx is the read-mostly context for drawing and coloring.
type Ctx struct {
	UI     *PerMapUI
	Canvas *render.Canvas
	CS     *colors.Scheme
	Hints  *RenderingHints
}

// DrawCtx derives the draw context for the primary map.
func (c *PluginCtx) DrawCtx() *Ctx {
	return &Ctx{UI: c.Primary, Canvas: c.Canvas, CS: c.CS, Hints: c.Hints}
}
