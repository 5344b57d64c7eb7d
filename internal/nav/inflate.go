package nav

import "math"

// InflationCellRadius quantizes an agent radius (plus clearance slop)
// to whole cells. Inflated grids are keyed on this value, so agents
// whose radii round to the same cell count share one dilation.
func (g *Grid) InflationCellRadius(agentRadius float32) int {
	if g == nil || g.cellSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64((agentRadius + g.slope.ClearanceSlop) / g.cellSize)))
}

// Inflate clones the grid and dilates every blocked cell outward by
// the agent's radius, so the search can treat the agent as a point.
// Blocked cells are read from the original, never the clone, keeping
// the dilation a single pass. A non-positive cell radius returns an
// identical clone. Heights are untouched; inflation affects only
// walkability.
func (g *Grid) Inflate(agentRadius float32) *Grid {
	clone := g.Clone()
	if clone == nil {
		return nil
	}
	cellRadius := g.InflationCellRadius(agentRadius)
	if cellRadius <= 0 {
		return clone
	}
	for z := 0; z < g.height; z++ {
		for x := 0; x < g.width; x++ {
			if g.walkable[g.index(x, z)] {
				continue
			}
			clone.dilateCell(x, z, cellRadius)
		}
	}
	return clone
}

// dilateCell blocks every cell in the Chebyshev box around (x, z)
// whose center sits within cellRadius cells of it.
func (g *Grid) dilateCell(x, z, cellRadius int) {
	limit := cellRadius * cellRadius
	for dz := -cellRadius; dz <= cellRadius; dz++ {
		for dx := -cellRadius; dx <= cellRadius; dx++ {
			if dx*dx+dz*dz > limit {
				continue
			}
			nx := x + dx
			nz := z + dz
			if !g.InBounds(nx, nz) {
				continue
			}
			g.walkable[g.index(nx, nz)] = false
		}
	}
}
