package nav

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// PlacedObject is the map-data boundary type: a free-text type tag
// plus a transform. The tag is the only thing classification reads;
// everything else about the source object stays outside this package.
type PlacedObject struct {
	Type     string     `json:"type"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
}

// EnvKind is the classified environment obstacle type.
type EnvKind uint8

const (
	EnvCustom EnvKind = iota
	EnvTree
	EnvRock
	EnvBoulder
	EnvGrass
	EnvStructure
)

// EntityKind is the live-actor obstacle type.
type EntityKind uint8

const (
	EntityPlayer EntityKind = iota
	EntityEnemy
	EntityProjectile
	EntityTemporaryEffect
)

// Blocking priorities. Overlap conflicts resolve toward the higher
// value; equal values go to the last writer.
const (
	PriorityBoulder         uint8 = 200
	PriorityPlayer          uint8 = 180
	PriorityEnemy           uint8 = 160
	PriorityTree            uint8 = 150
	PriorityRock            uint8 = 120
	PriorityStructure       uint8 = 100
	PriorityTemporaryEffect uint8 = 80
	PriorityProjectile      uint8 = 50
)

// ObstacleSource distinguishes the two concrete obstacle kinds.
type ObstacleSource uint8

const (
	SourceEnvironment ObstacleSource = iota
	SourceEntity
)

// Obstacle is the closed union over environment and entity obstacles.
// EntityID is a weak reference; this package never owns entity
// lifetime.
type Obstacle struct {
	Source   ObstacleSource
	Env      EnvKind
	Entity   EntityKind
	EntityID string
	Shape    Shape
	Position mgl32.Vec3
	Priority uint8
	Blocks   bool
}

// ClassifyPlacedObject derives an environment obstacle from a placed
// map object. Unrecognized tags with a valid horizontal scale become
// blocking rectangles; degenerate scale degrades to an inert obstacle
// rather than an error, since external map data may carry it.
func ClassifyPlacedObject(obj PlacedObject) Obstacle {
	tag := strings.ToLower(obj.Type)
	obstacle := Obstacle{
		Source:   SourceEnvironment,
		Position: obj.Position,
	}

	switch {
	case strings.Contains(tag, "tree"):
		obstacle.Env = EnvTree
		obstacle.Shape = CircleShape(obj.Scale.X() * 0.3 * 2.0)
		obstacle.Priority = PriorityTree
		obstacle.Blocks = true
	case strings.Contains(tag, "boulder"):
		obstacle.Env = EnvBoulder
		obstacle.Shape = CircleShape(obj.Scale.X() * 0.5 * 1.5)
		obstacle.Priority = PriorityBoulder
		obstacle.Blocks = true
	case strings.Contains(tag, "rock"):
		obstacle.Env = EnvRock
		obstacle.Shape = CircleShape(obj.Scale.X() * 0.5 * 1.5)
		obstacle.Priority = PriorityRock
		obstacle.Blocks = true
	case strings.Contains(tag, "grass"):
		obstacle.Env = EnvGrass
	case obj.Scale.X() > 0 && obj.Scale.Z() > 0:
		obstacle.Env = classifyCustomTag(tag)
		obstacle.Shape = RectShape(obj.Scale.X()*0.5, obj.Scale.Z()*0.5)
		obstacle.Priority = PriorityStructure
		obstacle.Blocks = true
	default:
		obstacle.Env = EnvCustom
	}

	return obstacle
}

func classifyCustomTag(tag string) EnvKind {
	for _, marker := range []string{"house", "hut", "wall", "fence", "structure", "ruin"} {
		if strings.Contains(tag, marker) {
			return EnvStructure
		}
	}
	return EnvCustom
}

// EntityObstacle builds an obstacle for a live actor: always a circle
// of the actor's collision radius at a kind-fixed priority.
func EntityObstacle(id string, kind EntityKind, position mgl32.Vec3, radius float32) Obstacle {
	priority := PriorityProjectile
	switch kind {
	case EntityPlayer:
		priority = PriorityPlayer
	case EntityEnemy:
		priority = PriorityEnemy
	case EntityTemporaryEffect:
		priority = PriorityTemporaryEffect
	}
	return Obstacle{
		Source:   SourceEntity,
		Entity:   kind,
		EntityID: id,
		Shape:    CircleShape(radius),
		Position: position,
		Priority: priority,
		Blocks:   true,
	}
}

// ContainsPoint reports whether the world point falls inside the
// obstacle's collision shape.
func (o Obstacle) ContainsPoint(point mgl32.Vec3) bool {
	return o.Shape.ContainsPoint(o.Position, point)
}

// ApplyBlocking rasterizes the obstacle onto the grid at its priority.
// Non-blocking obstacles and shapes fully outside the grid are no-ops.
func (o Obstacle) ApplyBlocking(g *Grid) {
	if !o.Blocks {
		return
	}
	g.BlockShape(o.Shape, o.Position, o.Priority)
}

// Manager aggregates the static obstacle list, rebuilt only when the
// map's placed objects change, and the dynamic list, cleared and
// repopulated from live entities every update cycle.
type Manager struct {
	static  []Obstacle
	dynamic []Obstacle
}

// NewManager returns an empty obstacle manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetStaticObjects rebuilds the static list from placed map objects.
func (m *Manager) SetStaticObjects(objects []PlacedObject) {
	m.static = m.static[:0]
	for _, obj := range objects {
		m.static = append(m.static, ClassifyPlacedObject(obj))
	}
}

// ResetDynamic drops the previous cycle's entity obstacles.
func (m *Manager) ResetDynamic() {
	m.dynamic = m.dynamic[:0]
}

// AddDynamic appends an entity obstacle for the current cycle.
func (m *Manager) AddDynamic(o Obstacle) {
	m.dynamic = append(m.dynamic, o)
}

// StaticCount reports the number of static obstacles.
func (m *Manager) StaticCount() int {
	return len(m.static)
}

// DynamicCount reports the number of dynamic obstacles.
func (m *Manager) DynamicCount() int {
	return len(m.dynamic)
}

// ApplyToGrid bakes every obstacle onto the grid, statics first, each
// list in order. Applying dynamics last lets a higher-priority entity
// take a cell from a lower-priority static obstacle, never the other
// way around. The grid is expected to be freshly built; there is no
// undo for removed obstacles, a change to the set means a full rebake.
func (m *Manager) ApplyToGrid(g *Grid) {
	for _, obstacle := range m.static {
		obstacle.ApplyBlocking(g)
	}
	for _, obstacle := range m.dynamic {
		obstacle.ApplyBlocking(g)
	}
}
