package nav

import "github.com/go-gl/mathgl/mgl32"

// ShapeKind tags the closed set of collision shape variants.
type ShapeKind uint8

const (
	ShapeNone ShapeKind = iota
	ShapeCircle
	ShapeRect
	ShapeCapsule
	ShapeCompound
)

// Shape is a tagged collision shape variant. Capsules are treated as
// circles for 2D grid queries; compound shapes are a list of offset
// sub-shapes.
type Shape struct {
	Kind   ShapeKind
	Radius float32 // circle and capsule
	Height float32 // capsule, unused by 2D queries
	HalfX  float32 // rect half extents
	HalfZ  float32
	Parts  []ShapePart // compound
}

// ShapePart is one member of a compound shape, offset from the owner's
// world position.
type ShapePart struct {
	Offset mgl32.Vec3
	Shape  Shape
}

// CircleShape builds a circle of the given radius.
func CircleShape(radius float32) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// RectShape builds an axis-aligned rectangle from half extents.
func RectShape(halfX, halfZ float32) Shape {
	return Shape{Kind: ShapeRect, HalfX: halfX, HalfZ: halfZ}
}

// CapsuleShape builds a capsule; grid queries treat it as a circle.
func CapsuleShape(radius, height float32) Shape {
	return Shape{Kind: ShapeCapsule, Radius: radius, Height: height}
}

// CompoundShape builds a shape from offset sub-shapes.
func CompoundShape(parts ...ShapePart) Shape {
	return Shape{Kind: ShapeCompound, Parts: parts}
}

// ContainsPoint reports whether the world point falls inside the shape
// placed at origin. Only the XZ plane is considered.
func (s Shape) ContainsPoint(origin, point mgl32.Vec3) bool {
	dx := point.X() - origin.X()
	dz := point.Z() - origin.Z()
	switch s.Kind {
	case ShapeCircle, ShapeCapsule:
		return dx*dx+dz*dz < s.Radius*s.Radius
	case ShapeRect:
		return abs32(dx) <= s.HalfX && abs32(dz) <= s.HalfZ
	case ShapeCompound:
		for _, part := range s.Parts {
			if part.Shape.ContainsPoint(origin.Add(part.Offset), point) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Bounds reports the world-space XZ bounding box of the shape placed
// at origin. The second return is false for shapes with no extent.
func (s Shape) Bounds(origin mgl32.Vec3) (min, max mgl32.Vec3, ok bool) {
	switch s.Kind {
	case ShapeCircle, ShapeCapsule:
		r := s.Radius
		return origin.Sub(mgl32.Vec3{r, 0, r}), origin.Add(mgl32.Vec3{r, 0, r}), true
	case ShapeRect:
		half := mgl32.Vec3{s.HalfX, 0, s.HalfZ}
		return origin.Sub(half), origin.Add(half), true
	case ShapeCompound:
		found := false
		for _, part := range s.Parts {
			pmin, pmax, pok := part.Shape.Bounds(origin.Add(part.Offset))
			if !pok {
				continue
			}
			if !found {
				min, max = pmin, pmax
				found = true
				continue
			}
			min = mgl32.Vec3{min32(min.X(), pmin.X()), 0, min32(min.Z(), pmin.Z())}
			max = mgl32.Vec3{max32(max.X(), pmax.X()), 0, max32(max.Z(), pmax.Z())}
		}
		return min, max, found
	default:
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
