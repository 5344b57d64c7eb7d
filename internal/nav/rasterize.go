package nav

import "github.com/go-gl/mathgl/mgl32"

// cellRange converts a world-space XZ bounding box into a clamped cell
// range. The second return is false when the box misses the grid
// entirely, which callers treat as a silent no-op.
func (g *Grid) cellRange(min, max mgl32.Vec3) (minX, minZ, maxX, maxZ int, ok bool) {
	if g == nil {
		return 0, 0, 0, 0, false
	}
	minX, minZ = g.cellCoords(min.X(), min.Z())
	maxX, maxZ = g.cellCoords(max.X(), max.Z())
	if maxX < 0 || maxZ < 0 || minX >= g.width || minZ >= g.height {
		return 0, 0, 0, 0, false
	}
	if minX < 0 {
		minX = 0
	}
	if minZ < 0 {
		minZ = 0
	}
	if maxX >= g.width {
		maxX = g.width - 1
	}
	if maxZ >= g.height {
		maxZ = g.height - 1
	}
	return minX, minZ, maxX, maxZ, true
}

// BlockCircle rasterizes a world-space circle onto the grid, blocking
// every cell whose center lies inside it. Portions outside the grid
// are skipped.
func (g *Grid) BlockCircle(center mgl32.Vec3, radius float32, priority uint8) {
	if g == nil || radius <= 0 {
		return
	}
	r := mgl32.Vec3{radius, 0, radius}
	minX, minZ, maxX, maxZ, ok := g.cellRange(center.Sub(r), center.Add(r))
	if !ok {
		return
	}
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			cell := Cell{X: x, Z: z}
			pos := g.WorldAt(cell)
			dx := pos.X() - center.X()
			dz := pos.Z() - center.Z()
			if dx*dx+dz*dz < radius*radius {
				g.Block(cell, priority)
			}
		}
	}
}

// BlockRect rasterizes an axis-aligned world-space rectangle onto the
// grid using its half extents.
func (g *Grid) BlockRect(center mgl32.Vec3, halfX, halfZ float32, priority uint8) {
	if g == nil || halfX <= 0 || halfZ <= 0 {
		return
	}
	half := mgl32.Vec3{halfX, 0, halfZ}
	minX, minZ, maxX, maxZ, ok := g.cellRange(center.Sub(half), center.Add(half))
	if !ok {
		return
	}
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			cell := Cell{X: x, Z: z}
			pos := g.WorldAt(cell)
			if abs32(pos.X()-center.X()) <= halfX && abs32(pos.Z()-center.Z()) <= halfZ {
				g.Block(cell, priority)
			}
		}
	}
}

// BlockShape rasterizes any collision shape variant at the given world
// position.
func (g *Grid) BlockShape(shape Shape, position mgl32.Vec3, priority uint8) {
	switch shape.Kind {
	case ShapeCircle, ShapeCapsule:
		g.BlockCircle(position, shape.Radius, priority)
	case ShapeRect:
		g.BlockRect(position, shape.HalfX, shape.HalfZ, priority)
	case ShapeCompound:
		for _, part := range shape.Parts {
			g.BlockShape(part.Shape, position.Add(part.Offset), priority)
		}
	}
}
