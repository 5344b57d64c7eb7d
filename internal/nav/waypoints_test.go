package nav

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFilterWaypointsKeepsEndpoints(t *testing.T) {
	path := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}, {4.5, 0, 0},
	}
	filtered := FilterWaypointsForSpacing(path, 2)

	if len(filtered) > len(path) {
		t.Fatalf("filtering may never grow the path: %d > %d", len(filtered), len(path))
	}
	if filtered[0] != path[0] {
		t.Fatalf("first point must survive, got %v", filtered[0])
	}
	if filtered[len(filtered)-1] != path[len(path)-1] {
		t.Fatalf("final point must survive, got %v", filtered[len(filtered)-1])
	}
	// Every consecutive pair except the forced final hop respects the
	// minimum spacing.
	for i := 0; i+2 < len(filtered); i++ {
		if filtered[i+1].Sub(filtered[i]).Len() < 2 {
			t.Fatalf("points %d and %d closer than spacing", i, i+1)
		}
	}
}

func TestFilterWaypointsShortPathsPassThrough(t *testing.T) {
	for _, path := range [][]mgl32.Vec3{
		nil,
		{{1, 0, 1}},
		{{0, 0, 0}, {0.5, 0, 0}},
	} {
		filtered := FilterWaypointsForSpacing(path, 2)
		if len(filtered) != len(path) {
			t.Fatalf("length %d path should pass through unchanged, got %d", len(path), len(filtered))
		}
	}
}

func TestFilterWaypointsDeduplicatesFinal(t *testing.T) {
	// The last interior point survives the spacing test and equals
	// the final point; it must not appear twice.
	path := []mgl32.Vec3{
		{0, 0, 0}, {3, 0, 0}, {3, 0, 0},
	}
	filtered := FilterWaypointsForSpacing(path, 2)
	if len(filtered) != 2 {
		t.Fatalf("expected deduplicated final point, got %v", filtered)
	}
}

func TestFilterWaypointsDropsDensePoints(t *testing.T) {
	path := []mgl32.Vec3{
		{0, 0, 0}, {0.5, 0, 0}, {1, 0, 0}, {1.5, 0, 0}, {2, 0, 0},
		{2.5, 0, 0}, {3, 0, 0}, {3.5, 0, 0}, {4, 0, 0}, {6, 0, 0},
	}
	filtered := FilterWaypointsForSpacing(path, 2)
	want := []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {4, 0, 0}, {6, 0, 0}}
	if len(filtered) != len(want) {
		t.Fatalf("expected %d waypoints, got %d (%v)", len(want), len(filtered), filtered)
	}
	for i := range want {
		if filtered[i] != want[i] {
			t.Fatalf("waypoint %d: expected %v, got %v", i, want[i], filtered[i])
		}
	}
}
