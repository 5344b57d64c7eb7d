package nav

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"moorfell/server/internal/terrain"
)

const (
	// DefaultMaxWalkableSlopeDeg marks a cell unwalkable when any
	// neighbor slope exceeds this angle.
	DefaultMaxWalkableSlopeDeg = 45.0
	// DefaultSlopeCostFactor scales height deltas into movement cost.
	DefaultSlopeCostFactor = 0.5
	// DefaultClearanceSlop pads the agent radius during inflation.
	DefaultClearanceSlop = 0.1
	// baseStepCost is the cost of one flat cardinal step.
	baseStepCost = 10.0
)

// SlopeConfig controls how terrain steepness translates into
// walkability and movement cost.
type SlopeConfig struct {
	MaxWalkableSlopeDeg float32
	SlopeCostFactor     float32
	ClearanceSlop       float32
}

// DefaultSlopeConfig returns the tuning used when no config is loaded.
func DefaultSlopeConfig() SlopeConfig {
	return SlopeConfig{
		MaxWalkableSlopeDeg: DefaultMaxWalkableSlopeDeg,
		SlopeCostFactor:     DefaultSlopeCostFactor,
		ClearanceSlop:       DefaultClearanceSlop,
	}
}

// Cell addresses one navigation grid cell.
type Cell struct {
	X int
	Z int
}

var cellNeighborOffsets = [...]Cell{
	{X: 0, Z: -1},
	{X: 1, Z: 0},
	{X: 0, Z: 1},
	{X: -1, Z: 0},
}

// Grid stores per-cell walkability, surface height and the priority of
// the obstacle currently owning each blocked cell. It is built once
// from terrain, mutated in place by exactly one obstacle bake, and
// read-only afterwards; concurrent readers are safe, concurrent bakes
// require external single-writer synchronization.
type Grid struct {
	width    int
	height   int
	cellSize float32
	walkable []bool
	heights  []float32
	priority []uint8
	slope    SlopeConfig
}

// NewGrid derives walkability from terrain slope analysis. Every cell
// compares its height against its up-to-four cardinal neighbors;
// border cells simply skip the neighbors they do not have.
func NewGrid(hm *terrain.Heightmap, cfg SlopeConfig) (*Grid, error) {
	if err := hm.Validate(); err != nil {
		return nil, fmt.Errorf("nav grid: %w", err)
	}

	grid := &Grid{
		width:    hm.Width,
		height:   hm.Height,
		cellSize: hm.CellSize,
		walkable: make([]bool, hm.Width*hm.Height),
		heights:  make([]float32, hm.Width*hm.Height),
		priority: make([]uint8, hm.Width*hm.Height),
		slope:    cfg,
	}

	for z := 0; z < grid.height; z++ {
		for x := 0; x < grid.width; x++ {
			h, ok := hm.HeightAt(x, z)
			if !ok {
				return nil, fmt.Errorf("nav grid: no height for in-bounds cell (%d,%d)", x, z)
			}
			grid.heights[grid.index(x, z)] = h
		}
	}

	for z := 0; z < grid.height; z++ {
		for x := 0; x < grid.width; x++ {
			grid.walkable[grid.index(x, z)] = grid.slopeWalkable(x, z)
		}
	}

	return grid, nil
}

func (g *Grid) slopeWalkable(x, z int) bool {
	here := g.heights[g.index(x, z)]
	for _, delta := range cellNeighborOffsets {
		nx := x + delta.X
		nz := z + delta.Z
		if !g.InBounds(nx, nz) {
			continue
		}
		diff := math.Abs(float64(g.heights[g.index(nx, nz)] - here))
		slopeDeg := math.Atan(diff/float64(g.cellSize)) * 180 / math.Pi
		if slopeDeg > float64(g.slope.MaxWalkableSlopeDeg) {
			return false
		}
	}
	return true
}

func (g *Grid) index(x, z int) int {
	return z*g.width + x
}

// InBounds reports whether (x, z) addresses a cell inside the grid.
func (g *Grid) InBounds(x, z int) bool {
	return g != nil && x >= 0 && z >= 0 && x < g.width && z < g.height
}

// Width reports the grid width in cells.
func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

// Height reports the grid depth in cells.
func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

// CellSize reports the world units covered by one cell edge.
func (g *Grid) CellSize() float32 {
	if g == nil {
		return 0
	}
	return g.cellSize
}

// Walkable reports whether the cell may be occupied by an agent.
func (g *Grid) Walkable(c Cell) bool {
	if !g.InBounds(c.X, c.Z) {
		return false
	}
	return g.walkable[g.index(c.X, c.Z)]
}

// CellPriority reports the blocking priority stored for the cell.
func (g *Grid) CellPriority(c Cell) uint8 {
	if !g.InBounds(c.X, c.Z) {
		return 0
	}
	return g.priority[g.index(c.X, c.Z)]
}

// CellHeight reports the terrain elevation stored for the cell.
func (g *Grid) CellHeight(c Cell) (float32, bool) {
	if !g.InBounds(c.X, c.Z) {
		return 0, false
	}
	return g.heights[g.index(c.X, c.Z)], true
}

// CellAt resolves a world position to the nearest grid cell. The grid
// is centered on the world origin; positions outside it resolve to
// nothing.
func (g *Grid) CellAt(world mgl32.Vec3) (Cell, bool) {
	if g == nil {
		return Cell{}, false
	}
	x, z := g.cellCoords(world.X(), world.Z())
	if !g.InBounds(x, z) {
		return Cell{}, false
	}
	return Cell{X: x, Z: z}, true
}

// cellCoords converts world XZ to unclamped cell coordinates, rounded
// to the nearest cell.
func (g *Grid) cellCoords(wx, wz float32) (int, int) {
	x := int(math.Round(float64((wx + g.extentX()/2) / g.cellSize)))
	z := int(math.Round(float64((wz + g.extentZ()/2) / g.cellSize)))
	return x, z
}

func (g *Grid) extentX() float32 {
	return float32(g.width) * g.cellSize
}

func (g *Grid) extentZ() float32 {
	return float32(g.height) * g.cellSize
}

// WorldAt converts a cell back to world coordinates, with the cell's
// stored terrain height on the Y axis.
func (g *Grid) WorldAt(c Cell) mgl32.Vec3 {
	y := float32(0)
	if g.InBounds(c.X, c.Z) {
		y = g.heights[g.index(c.X, c.Z)]
	}
	return mgl32.Vec3{
		float32(c.X)*g.cellSize - g.extentX()/2,
		y,
		float32(c.Z)*g.cellSize - g.extentZ()/2,
	}
}

// MoveCost weighs a step between two adjacent cells. Uphill steps cost
// more, downhill less, floored so the weight never collapses to zero.
func (g *Grid) MoveCost(from, to Cell) uint {
	delta := float64(0)
	if g.InBounds(from.X, from.Z) && g.InBounds(to.X, to.Z) {
		delta = float64(g.heights[g.index(to.X, to.Z)] - g.heights[g.index(from.X, from.Z)])
	}
	scale := 1 + float64(g.slope.SlopeCostFactor)*delta
	if scale < 0.1 {
		scale = 0.1
	}
	return uint(baseStepCost * scale)
}

// Block marks the cell unwalkable at the given priority. A lower
// priority than the cell's current owner loses; an equal or higher one
// takes the cell and records itself as the owner.
func (g *Grid) Block(c Cell, priority uint8) {
	if !g.InBounds(c.X, c.Z) {
		return
	}
	idx := g.index(c.X, c.Z)
	if priority < g.priority[idx] {
		return
	}
	g.walkable[idx] = false
	g.priority[idx] = priority
}

// Unblock restores walkability at the given priority. It follows the
// same ownership rule as Block and resets the stored priority.
func (g *Grid) Unblock(c Cell, priority uint8) {
	if !g.InBounds(c.X, c.Z) {
		return
	}
	idx := g.index(c.X, c.Z)
	if priority < g.priority[idx] {
		return
	}
	g.walkable[idx] = true
	g.priority[idx] = 0
}

// Clone copies the grid, including walkability and priorities, so a
// path query can dilate it without touching the shared original.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	clone := &Grid{
		width:    g.width,
		height:   g.height,
		cellSize: g.cellSize,
		walkable: make([]bool, len(g.walkable)),
		heights:  make([]float32, len(g.heights)),
		priority: make([]uint8, len(g.priority)),
		slope:    g.slope,
	}
	copy(clone.walkable, g.walkable)
	copy(clone.heights, g.heights)
	copy(clone.priority, g.priority)
	return clone
}
