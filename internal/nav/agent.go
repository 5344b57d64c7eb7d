package nav

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultReplanInterval forces a periodic replan even when the
	// path still looks valid.
	DefaultReplanInterval = 2 * time.Second
	// DefaultReachDistance is the XZ distance at which a waypoint
	// counts as reached.
	DefaultReachDistance = 0.5
	// DefaultStalenessDistance is how far the destination may drift
	// from the path's final waypoint before the path counts as stale.
	DefaultStalenessDistance = 1.0
)

// PathAgent carries one agent's active path and the bookkeeping the
// replanning logic reads every tick. The states are implicit in the
// fields; there is no explicit machine. The owning entity holds and
// destroys this value.
type PathAgent struct {
	Path          []mgl32.Vec3
	WaypointIndex int

	Destination    mgl32.Vec3
	HasDestination bool

	LastReplan        time.Time
	ReplanInterval    time.Duration
	ReachDistance     float32
	StalenessDistance float32

	// Radius is the agent's collision radius, used for inflation.
	Radius float32
}

// NewPathAgent returns an idle agent with default replan tuning.
func NewPathAgent(radius float32) *PathAgent {
	return &PathAgent{
		ReplanInterval:    DefaultReplanInterval,
		ReachDistance:     DefaultReachDistance,
		StalenessDistance: DefaultStalenessDistance,
		Radius:            radius,
	}
}

// SetDestination points the agent at a new goal. The stale path is
// kept until the next replan so movement never freezes mid-tick.
func (a *PathAgent) SetDestination(destination mgl32.Vec3) {
	a.Destination = destination
	a.HasDestination = true
}

// ClearDestination drops both the goal and the active path.
func (a *PathAgent) ClearDestination() {
	a.HasDestination = false
	a.Path = nil
	a.WaypointIndex = 0
}

// ShouldReplan reports whether any replan trigger fires: the interval
// elapsed, the destination drifted from the path's end, a path exists
// without a destination, or a destination exists without a path.
func (a *PathAgent) ShouldReplan(now time.Time) bool {
	if a == nil {
		return false
	}
	if now.Sub(a.LastReplan) > a.ReplanInterval {
		return true
	}
	if a.HasDestination && len(a.Path) > 0 {
		final := a.Path[len(a.Path)-1]
		if xzDistance(final, a.Destination) > a.StalenessDistance {
			return true
		}
	}
	if len(a.Path) > 0 && !a.HasDestination {
		return true
	}
	if a.HasDestination && len(a.Path) == 0 {
		return true
	}
	return false
}

// Replan re-invokes the search toward the current destination. On
// failure the previous path is kept so the caller can fall back to it;
// the replan timestamp advances either way, which doubles as the
// failure cooldown. Without a destination it just clears the path.
func (a *PathAgent) Replan(planner *Planner, position mgl32.Vec3, now time.Time) bool {
	if a == nil {
		return false
	}
	a.LastReplan = now
	if !a.HasDestination {
		a.Path = nil
		a.WaypointIndex = 0
		return false
	}
	path, ok := planner.FindPath(position, a.Destination, a.Radius)
	if !ok {
		return false
	}
	a.Path = path
	a.WaypointIndex = 0
	return true
}

// CurrentWaypoint reports the waypoint the agent is steering toward.
func (a *PathAgent) CurrentWaypoint() (mgl32.Vec3, bool) {
	if a == nil || a.WaypointIndex >= len(a.Path) {
		return mgl32.Vec3{}, false
	}
	return a.Path[a.WaypointIndex], true
}

// AdvanceWaypoint walks the waypoint index forward while the agent
// sits within reach distance of the current waypoint, measured on the
// XZ plane only. Advancing past the last waypoint clears the
// destination: the agent has arrived.
func (a *PathAgent) AdvanceWaypoint(position mgl32.Vec3) {
	if a == nil {
		return
	}
	for a.WaypointIndex < len(a.Path) {
		if xzDistance(position, a.Path[a.WaypointIndex]) > a.ReachDistance {
			return
		}
		a.WaypointIndex++
	}
	if len(a.Path) > 0 {
		a.ClearDestination()
	}
}

func xzDistance(a, b mgl32.Vec3) float32 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return mgl32.Vec2{dx, dz}.Len()
}
