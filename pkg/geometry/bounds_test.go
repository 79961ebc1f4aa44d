package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	box := NewBoundingBox()
	if !box.Empty() {
		t.Fatalf("new bounding box should be empty")
	}

	box.Extend(NewVector3(-1, 2, 0))
	box.Extend(NewVector3(3, -2, 5))

	if box.Empty() {
		t.Fatalf("bounding box should not be empty after Extend")
	}
	if box.Size() != NewVector3(4, 4, 5) {
		t.Errorf("Size failed: got %v", box.Size())
	}
	if box.Center() != NewVector3(1, 0, 2.5) {
		t.Errorf("Center failed: got %v", box.Center())
	}
	if math.Abs(box.Volume()-80) > 1e-10 {
		t.Errorf("Volume failed: expected 80, got %v", box.Volume())
	}
}
