// Package ui defines what the dispatcher and the plugins share: the plugin
// variants and their capabilities, the per-event context, and the state bound
// to one loaded map.
package ui

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/world"
)

// Kind enumerates every plugin variant. Callers that need a concrete
// capability switch on the concrete type; Kind names it for logs and tests.
type Kind int

const (
	KindLogs Kind = iota
	KindSearch
	KindWarp
	KindABTestManager
	KindColorPicker
	KindDrawNeighborhood
	KindEditsManager
	KindRoadEditor
	KindScenarioManager
	KindStopSignEditor
	KindTrafficSignalEditor
	KindChokepoints
	KindClassifier
	KindFloodfill
	KindValidator
	KindDiffAll
	KindDiffTrip
	KindShowScore
	KindHider
	KindSimControls
	KindTimeTravel
	KindFollow
	KindNeighborhoodSummary
	KindShowActivity
	KindShowAssociated
	KindShowRoute
	KindTurnCycler
	KindDebugObjects
	KindLayers
	kindCount
)

var kindNames = [kindCount]string{
	"logs", "search", "warp", "ab_test_manager", "color_picker", "draw_neighborhood",
	"edits_manager", "road_editor", "scenario_manager", "stop_sign_editor",
	"traffic_signal_editor", "chokepoints", "classifier", "floodfill", "validator",
	"diff_all", "diff_trip", "show_score", "hider", "sim_controls", "time_travel",
	"follow", "neighborhood_summary", "show_activity", "show_associated", "show_route",
	"turn_cycler", "debug_objects", "layers",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Plugin is the surface every variant has.
type Plugin interface {
	Kind() Kind
	Draw(g *render.Canvas, ctx *Ctx)
	ColorFor(id world.ID, ctx *Ctx) (colors.Color, bool)
}

// Blocking handles an event in an exclusive slot or as a stackable modal.
// It returns false once the plugin is done and should be dropped.
type Blocking interface {
	Plugin
	Event(ctx *PluginCtx) bool
}

// SiblingAware is Blocking for plugins that coordinate with the per-map set.
type SiblingAware interface {
	Plugin
	EventWithPlugins(ctx *PluginCtx, s Siblings) bool
}

// Ambient plugins see every event that reaches the last tier.
type Ambient interface {
	Plugin
	AmbientEvent(ctx *PluginCtx)
}

type AmbientWithPlugins interface {
	Plugin
	AmbientEventWithPlugins(ctx *PluginCtx, s Siblings)
}

// TextEntry is implemented by plugins that read raw keystrokes. While
// TakingText is true, time travel does not claim its activation key.
type TextEntry interface {
	TakingText() bool
}

// Siblings is what a plugin may touch of the per-map plugin set.
type Siblings interface {
	ResetTimeTravel()
	TimeTravelActive() bool
}

// RunBlocking feeds ctx to p through the richest event method it has.
// A plugin with no event method is done immediately.
func RunBlocking(p Plugin, ctx *PluginCtx, s Siblings) bool {
	switch p := p.(type) {
	case SiblingAware:
		return p.EventWithPlugins(ctx, s)
	case Blocking:
		return p.Event(ctx)
	}
	return false
}

// Base supplies the no-op draw and color methods.
type Base struct{}

func (Base) Draw(*render.Canvas, *Ctx) {}

func (Base) ColorFor(world.ID, *Ctx) (colors.Color, bool) { return "", false }
