package placement

import "testing"

func TestGroundPlaneUnknown(t *testing.T) {
	g := NewGroundPlane()
	if _, known := g.GroundY(); known {
		t.Fatalf("fresh plane reports known ground")
	}
	if got := g.AnchorY(1.5); got != 1.5 {
		t.Fatalf("AnchorY before detection = %v, want passthrough 1.5", got)
	}
	if g.IsAnchored(Vec3{Y: 0}, DefaultGroundTolerance) {
		t.Fatalf("IsAnchored must be false before any SetGroundY")
	}
}

func TestGroundPlaneAnchoring(t *testing.T) {
	g := NewGroundPlane()
	g.SetGroundY(-0.8)

	if got := g.AnchorY(2.0); got != -0.8 {
		t.Fatalf("AnchorY = %v, want stored -0.8", got)
	}
	for _, pos := range []Vec3{{X: 0, Y: -0.8, Z: 0}, {X: 100, Y: -0.8, Z: -50}, {X: -3, Y: -0.795, Z: 7}} {
		if !g.IsAnchored(pos, DefaultGroundTolerance) {
			t.Fatalf("position %+v should be anchored", pos)
		}
	}
	if g.IsAnchored(Vec3{Y: -0.7}, DefaultGroundTolerance) {
		t.Fatalf("0.1m off the plane accepted at 0.01m tolerance")
	}

	// A fresh hit-test result overwrites the stored height.
	g.SetGroundY(0.25)
	if !g.IsAnchored(Vec3{Y: 0.25}, DefaultGroundTolerance) {
		t.Fatalf("new ground height not applied")
	}
}
