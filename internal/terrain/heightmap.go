package terrain

import "fmt"

// Heightmap is the row-major elevation field handed to the navigation
// subsystem by world generation. Index of cell (x, z) is z*Width+x.
type Heightmap struct {
	Width    int
	Height   int
	CellSize float32
	Heights  []float32
}

// Validate checks the dimensional invariants a well-formed heightmap
// must satisfy before it can back a navigation grid.
func (h *Heightmap) Validate() error {
	if h == nil {
		return fmt.Errorf("heightmap: nil")
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("heightmap: non-positive dimensions %dx%d", h.Width, h.Height)
	}
	if h.CellSize <= 0 {
		return fmt.Errorf("heightmap: non-positive cell size %v", h.CellSize)
	}
	if len(h.Heights) != h.Width*h.Height {
		return fmt.Errorf("heightmap: %d heights for %dx%d cells", len(h.Heights), h.Width, h.Height)
	}
	return nil
}

// HeightAt reports the elevation stored for cell (x, z).
func (h *Heightmap) HeightAt(x, z int) (float32, bool) {
	if h == nil || x < 0 || z < 0 || x >= h.Width || z >= h.Height {
		return 0, false
	}
	idx := z*h.Width + x
	if idx >= len(h.Heights) {
		return 0, false
	}
	return h.Heights[idx], true
}

// ExtentX reports the world-space width covered by the heightmap.
func (h *Heightmap) ExtentX() float32 {
	if h == nil {
		return 0
	}
	return float32(h.Width) * h.CellSize
}

// ExtentZ reports the world-space depth covered by the heightmap.
func (h *Heightmap) ExtentZ() float32 {
	if h == nil {
		return 0
	}
	return float32(h.Height) * h.CellSize
}

// Flat builds a uniform heightmap. Worldgen produces the real thing;
// this is for bootstrapping empty maps and tests.
func Flat(width, height int, cellSize, elevation float32) *Heightmap {
	heights := make([]float32, width*height)
	for i := range heights {
		heights[i] = elevation
	}
	return &Heightmap{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		Heights:  heights,
	}
}
