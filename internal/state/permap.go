package state

import (
	"github.com/jask/mapedit/internal/plugins/debug"
	"github.com/jask/mapedit/internal/plugins/sim"
	"github.com/jask/mapedit/internal/plugins/view"
	"github.com/jask/mapedit/internal/ui"
)

// PluginsPerMap lives exactly as long as one loaded map.
type PluginsPerMap struct {
	hider      *debug.Hider
	search     *view.SearchState
	timeTravel *sim.TimeTravel
	ambient    []ui.Plugin
}

// NewPluginsPerMap creates the map-scoped set. The ambient order is also the
// order they are asked for object colors.
func NewPluginsPerMap(debugControls bool) *PluginsPerMap {
	p := &PluginsPerMap{
		timeTravel: sim.NewTimeTravel(),
		ambient: []ui.Plugin{
			view.NewFollowState(),
			view.NewNeighborhoodSummary(),
			view.NewShowActivity(),
			view.NewShowAssociated(),
			view.NewShowRoute(),
			view.NewTurnCycler(),
		},
	}
	if debugControls {
		p.ambient = append(p.ambient, debug.NewDebugObjects())
	}
	return p
}

func (p *PluginsPerMap) ResetTimeTravel()       { p.timeTravel.Reset() }
func (p *PluginsPerMap) TimeTravelActive() bool { return p.timeTravel.IsActive() }

func (p *PluginsPerMap) TimeTravel() *sim.TimeTravel { return p.timeTravel }
func (p *PluginsPerMap) Search() *view.SearchState   { return p.search }
func (p *PluginsPerMap) Hider() *debug.Hider         { return p.hider }
func (p *PluginsPerMap) Ambient() []ui.Plugin        { return p.ambient }

func (p *PluginsPerMap) searchBlocking() bool { return p.search != nil && p.search.IsBlocking() }
