package nav

import "github.com/go-gl/mathgl/mgl32"

// DefaultWaypointSpacing is the minimum world-unit distance between
// consecutive kept waypoints.
const DefaultWaypointSpacing = 2.0

// FilterWaypointsForSpacing decimates a raw search path so downstream
// movement steers between sparse waypoints instead of every cell
// center. The first point is always kept; later points survive only
// when at least minSpacing from the last kept one; the final point is
// force-kept so the destination stays exact. Paths of length two or
// less pass through unchanged.
func FilterWaypointsForSpacing(path []mgl32.Vec3, minSpacing float32) []mgl32.Vec3 {
	if len(path) <= 2 {
		return path
	}

	filtered := make([]mgl32.Vec3, 0, len(path))
	filtered = append(filtered, path[0])
	for _, point := range path[1 : len(path)-1] {
		last := filtered[len(filtered)-1]
		if point.Sub(last).Len() >= minSpacing {
			filtered = append(filtered, point)
		}
	}

	final := path[len(path)-1]
	if filtered[len(filtered)-1] != final {
		filtered = append(filtered, final)
	}
	return filtered
}
