package mathx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}

func TestNormalize_ZeroStaysZero(t *testing.T) {
	if got := Normalize(mgl64.Vec3{}); !IsZero(got) {
		t.Fatalf("Normalize(0)=%v", got)
	}
	inf := mgl64.Vec3{math.Inf(1), 0, 0}
	if got := Normalize(inf); !IsZero(got) {
		t.Fatalf("Normalize(inf)=%v", got)
	}
	got := Normalize(mgl64.Vec3{3, 0, 4})
	if math.Abs(got.Len()-1) > 1e-12 || math.Abs(got[0]-0.6) > 1e-12 {
		t.Fatalf("Normalize(3,0,4)=%v", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 2); got != 0 {
		t.Fatalf("Clamp(-1)=%v", got)
	}
	if got := Clamp(3, 0, 2); got != 2 {
		t.Fatalf("Clamp(3)=%v", got)
	}
	if got := Clamp(1.5, 0, 2); got != 1.5 {
		t.Fatalf("Clamp(1.5)=%v", got)
	}
}

func TestLookRotation_MapsForwardOntoDir(t *testing.T) {
	dirs := []mgl64.Vec3{
		{0, 0, 1},
		{0, 0, -1},
		{1, 0, 0},
		{-1, 0, 0},
		{0, 1, 0},
		{0, -1, 0},
		{1, 2, 3},
		{-0.3, 0.9, 0.1},
		{0, 1, 1e-9},
		{1e-12, -1, 0},
	}
	for _, d := range dirs {
		q, ok := LookRotation(d)
		if !ok {
			t.Fatalf("LookRotation(%v) not ok", d)
		}
		got := q.Rotate(Forward)
		want := Normalize(d)
		if !near(got, want, 1e-9) {
			t.Fatalf("LookRotation(%v): forward=%v want %v", d, got, want)
		}
		if math.Abs(q.Len()-1) > 1e-9 {
			t.Fatalf("LookRotation(%v) not unit: %v", d, q.Len())
		}
	}
}

func TestLookRotation_UpStaysUpright(t *testing.T) {
	q, _ := LookRotation(mgl64.Vec3{1, 0, 0})
	up := q.Rotate(mgl64.Vec3{0, 1, 0})
	if !near(up, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Fatalf("horizontal facing tilted up axis: %v", up)
	}
}

func TestLookRotation_ZeroIsIdentity(t *testing.T) {
	q, ok := LookRotation(mgl64.Vec3{})
	if ok {
		t.Fatalf("zero dir should not be ok")
	}
	if !q.ApproxEqual(mgl64.QuatIdent()) {
		t.Fatalf("zero dir rotation=%v", q)
	}
}
