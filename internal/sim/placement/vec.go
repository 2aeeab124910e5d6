package placement

import "math"

// Vec3 is a position in scene space, metres, Y up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// HorizontalDistance ignores Y; placement happens on the ground plane.
func (v Vec3) HorizontalDistance(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// AABB is an axis-aligned bounding box, Min inclusive, Max exclusive.
type AABB struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// FootprintBox approximates a creature as a cube of side `scale` metres
// centered on `pos` in X/Z and resting on it in Y.
func FootprintBox(pos Vec3, scale float64) AABB {
	half := scale / 2
	return AABB{
		Min: Vec3{pos.X - half, pos.Y, pos.Z - half},
		Max: Vec3{pos.X + half, pos.Y + scale, pos.Z + half},
	}
}

func (b AABB) Volume() float64 {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	dz := b.Max.Z - b.Min.Z
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 0
	}
	return dx * dy * dz
}

// Intersection returns the overlapping region; the zero box (volume 0) when disjoint.
func (b AABB) Intersection(o AABB) AABB {
	r := AABB{
		Min: Vec3{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)},
	}
	if r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y || r.Max.Z <= r.Min.Z {
		return AABB{}
	}
	return r
}

// OverlapFraction is the intersection volume divided by the smaller box's
// volume: 0 for disjoint boxes, 1 when the smaller box is fully contained.
func OverlapFraction(a, b AABB) float64 {
	va := a.Volume()
	vb := b.Volume()
	if va == 0 || vb == 0 {
		return 0
	}
	vi := a.Intersection(b).Volume()
	if vi == 0 {
		return 0
	}
	return vi / math.Min(va, vb)
}
