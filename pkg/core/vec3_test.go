package core

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("expected unit length, got %v", n.Length())
	}
	if !n.Equals(NewVec3(0.6, 0, 0.8)) {
		t.Errorf("unexpected normalized vector %v", n)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("expected zero vector, got %v", got)
	}
}

func TestVec3ReflectRefract(t *testing.T) {
	v := NewVec3(1, -1, 0).Normalize()
	n := NewVec3(0, 1, 0)
	r := v.Reflect(n)
	if math.Abs(r.Y-(-v.Y)) > 1e-9 {
		t.Errorf("reflect did not flip the normal component: %v", r)
	}

	_, ok := v.Refract(n, 100.0)
	if ok {
		t.Errorf("expected total internal reflection at 45 degrees with large eta")
	}
}

func TestVec3IsNaN(t *testing.T) {
	if (Vec3{X: 1, Y: 2, Z: 3}).IsNaN() {
		t.Errorf("finite vector reported as NaN")
	}
	if !(Vec3{X: math.NaN(), Y: 0, Z: 0}).IsNaN() {
		t.Errorf("NaN vector not detected")
	}
	if !(Vec3{X: math.Inf(1), Y: 0, Z: 0}).IsNaN() {
		t.Errorf("Inf vector not detected")
	}
}

func TestFaceforward(t *testing.T) {
	n := NewVec3(0, 1, 0)
	ref := NewVec3(0, -1, 0)
	got := Faceforward(n, ref)
	if !got.Equals(n.Negate()) {
		t.Errorf("expected flipped normal, got %v", got)
	}
}
