package placement

// DefaultGroundTolerance is the validation bound for externally supplied
// positions. Placement itself anchors Y exactly, never within tolerance.
const DefaultGroundTolerance = 0.01

// GroundPlane holds the single detected ground height for a scene. The AR
// session layer overwrites it as hit-test results arrive; the placement
// engine and validators only read it.
type GroundPlane struct {
	groundY float64
	known   bool
}

func NewGroundPlane() *GroundPlane {
	return &GroundPlane{}
}

// SetGroundY overwrites the stored ground height.
func (g *GroundPlane) SetGroundY(y float64) {
	g.groundY = y
	g.known = true
}

// GroundY reports the stored height and whether one has been detected.
func (g *GroundPlane) GroundY() (float64, bool) {
	return g.groundY, g.known
}

// AnchorY returns the detected ground height, or candidateY unchanged while
// no ground has been detected yet.
func (g *GroundPlane) AnchorY(candidateY float64) float64 {
	if !g.known {
		return candidateY
	}
	return g.groundY
}

// IsAnchored reports whether pos sits on the ground plane within tol metres.
// Always false before the first SetGroundY.
func (g *GroundPlane) IsAnchored(pos Vec3, tol float64) bool {
	if !g.known {
		return false
	}
	d := pos.Y - g.groundY
	if d < 0 {
		d = -d
	}
	return d <= tol
}
