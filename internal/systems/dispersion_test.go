package systems

import (
	"math"
	"math/rand"
	"testing"
)

func TestCalcErrorPosition_Distance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := Vec3{X: 10, Y: -5, Z: 7}

	for i := 0; i < 500; i++ {
		p := CalcErrorPosition(rng, base, 2, 6)
		d := p.Sub(base).Length2D()
		if d < 2-1e-9 || d > 6+1e-9 {
			t.Fatalf("distance %v outside [2,6]", d)
		}
		if p.Z != base.Z {
			t.Fatalf("Z changed: %v", p.Z)
		}
	}
}

func TestCalcErrorPosition_ZeroRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := Vec3{X: 1, Y: 2, Z: 3}
	if p := CalcErrorPosition(rng, base, 0, 0); p.DistanceTo(base) > 1e-12 {
		t.Errorf("expected base position, got %+v", p)
	}
}

func TestCalcErrorPositionOppositeCircle_Arc(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := Vec3{}
	// Пришли с +Y, значит искать надо в сторону -Y.
	origin := Vec3{Y: 20}

	for i := 0; i < 500; i++ {
		p := CalcErrorPositionOppositeCircle(rng, base, 6, 6, origin)
		d := p.Length2D()
		if math.Abs(d-6) > 1e-9 {
			t.Fatalf("expected distance 6, got %v", d)
		}

		// Угол между направлением на точку и -Y не больше 60°
		cos := (-p.Y) / d
		if cos < math.Cos(60*math.Pi/180)-1e-9 {
			t.Fatalf("point %+v is outside the opposite arc", p)
		}
	}
}

func TestCalcErrorPositionOppositeCircle_CoincidentOrigin(t *testing.T) {
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	base := Vec3{X: 3, Y: 3}

	got := CalcErrorPositionOppositeCircle(a, base, 1, 4, Vec3{X: 3, Y: 3, Z: 50})
	want := CalcErrorPosition(b, base, 1, 4)
	if got != want {
		t.Errorf("expected full-circle fallback %+v, got %+v", want, got)
	}
}
