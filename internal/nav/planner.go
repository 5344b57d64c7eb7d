package nav

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"moorfell/server/internal/terrain"
)

// SearchConfig tunes path queries.
type SearchConfig struct {
	// WaypointSpacing is the minimum distance between kept waypoints.
	WaypointSpacing float32
	// MaxExpansions bounds A* node expansion per query; zero means
	// the search runs to exhaustion.
	MaxExpansions int
}

// DefaultSearchConfig returns the tuning used when no config is loaded.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{WaypointSpacing: DefaultWaypointSpacing}
}

// Planner owns the baked navigation grid and answers path queries.
// The grid is a single-writer/many-reader resource: rebakes take the
// write lock and happen only at controlled moments (map load, static
// set change, entity update cycle); path queries share the read lock
// and work on private inflated clones.
type Planner struct {
	mu      sync.RWMutex
	hm      *terrain.Heightmap
	slope   SlopeConfig
	search  SearchConfig
	manager *Manager
	grid    *Grid

	// cacheMu guards inflated on its own so concurrent readers can
	// populate the cache while holding only the read lock.
	cacheMu  sync.Mutex
	inflated map[int]*Grid
}

// NewPlanner builds a walkability grid from terrain and wraps it with
// an empty obstacle set.
func NewPlanner(hm *terrain.Heightmap, slope SlopeConfig, search SearchConfig) (*Planner, error) {
	grid, err := NewGrid(hm, slope)
	if err != nil {
		return nil, err
	}
	if search.WaypointSpacing <= 0 {
		search.WaypointSpacing = DefaultWaypointSpacing
	}
	return &Planner{
		hm:       hm,
		slope:    slope,
		search:   search,
		manager:  NewManager(),
		grid:     grid,
		inflated: make(map[int]*Grid),
	}, nil
}

// SetStaticObjects replaces the static obstacle set from placed map
// objects and rebakes the grid.
func (p *Planner) SetStaticObjects(objects []PlacedObject) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manager.SetStaticObjects(objects)
	return p.rebakeLocked()
}

// UpdateDynamic replaces the dynamic obstacle set for this update
// cycle and rebakes the grid. Entities are not tracked incrementally;
// the caller hands over the full current set every time.
func (p *Planner) UpdateDynamic(obstacles []Obstacle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manager.ResetDynamic()
	for _, obstacle := range obstacles {
		p.manager.AddDynamic(obstacle)
	}
	return p.rebakeLocked()
}

// SetSearchConfig swaps the query tuning, typically on config reload.
// Slope config is baked into the grid and cannot change this way.
func (p *Planner) SetSearchConfig(search SearchConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if search.WaypointSpacing <= 0 {
		search.WaypointSpacing = DefaultWaypointSpacing
	}
	p.search = search
}

// rebakeLocked rebuilds the grid from terrain, applies every obstacle,
// and drops all cached inflations. The baked grid stores only winning
// priorities, so any obstacle-set change means starting from scratch.
func (p *Planner) rebakeLocked() error {
	grid, err := NewGrid(p.hm, p.slope)
	if err != nil {
		return fmt.Errorf("rebake: %w", err)
	}
	p.manager.ApplyToGrid(grid)
	p.grid = grid
	p.cacheMu.Lock()
	p.inflated = make(map[int]*Grid)
	p.cacheMu.Unlock()
	return nil
}

// inflatedFor returns the grid dilated for the agent radius, reusing a
// cached clone when one exists for the same quantized cell radius.
func (p *Planner) inflatedFor(agentRadius float32) *Grid {
	cellRadius := p.grid.InflationCellRadius(agentRadius)
	if cellRadius <= 0 {
		return p.grid
	}
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if cached, ok := p.inflated[cellRadius]; ok {
		return cached
	}
	inflated := p.grid.Inflate(agentRadius)
	p.inflated[cellRadius] = inflated
	return inflated
}

// FindPath answers a path query for one agent. A false result means
// "no path": out-of-bounds or unwalkable endpoints, or true
// unreachability. It is an expected outcome, never a fault.
func (p *Planner) FindPath(start, goal mgl32.Vec3, agentRadius float32) ([]mgl32.Vec3, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	inflated := p.inflatedFor(agentRadius)

	startCell, ok := inflated.CellAt(start)
	if !ok {
		return nil, false
	}
	goalCell, ok := inflated.CellAt(goal)
	if !ok {
		return nil, false
	}
	// Hard precondition: no nearest-walkable fallback.
	if !inflated.Walkable(startCell) || !inflated.Walkable(goalCell) {
		return nil, false
	}

	cells, ok := inflated.astar(startCell, goalCell, p.search.MaxExpansions)
	if !ok {
		return nil, false
	}

	// World conversion reads the original grid: inflation changes
	// walkability, never height.
	path := make([]mgl32.Vec3, 0, len(cells))
	for _, cell := range cells {
		path = append(path, p.grid.WorldAt(cell))
	}
	return FilterWaypointsForSpacing(path, p.search.WaypointSpacing), true
}

// GridSnapshot returns the current baked grid for read-only
// inspection. Callers must not mutate it.
func (p *Planner) GridSnapshot() *Grid {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.grid
}

// ObstacleCounts reports the static and dynamic list sizes, mostly
// for logging around bake cycles.
func (p *Planner) ObstacleCounts() (static, dynamic int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.manager.StaticCount(), p.manager.DynamicCount()
}
