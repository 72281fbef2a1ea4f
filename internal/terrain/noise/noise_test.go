package noise

import "testing"

func TestEval2Deterministic(t *testing.T) {
	g1 := New(12345)
	g2 := New(12345)

	for i := 0; i < 100; i++ {
		x := float64(i) * 0.1
		y := float64(i) * 0.2
		if g1.Eval2(x, y) != g2.Eval2(x, y) {
			t.Fatalf("Eval2 not deterministic at (%f, %f)", x, y)
		}
	}
}

func TestEval2Range(t *testing.T) {
	g := New(42)

	for i := 0; i < 10000; i++ {
		x := float64(i)*0.37 - 500
		y := float64(i)*0.53 - 500
		v := g.Eval2(x, y)
		if v < -1.0 || v > 1.0 {
			t.Fatalf("Eval2(%f, %f) = %f, out of [-1,1]", x, y, v)
		}
	}
}

func TestEval3Deterministic(t *testing.T) {
	g1 := New(99)
	g2 := New(99)

	for i := 0; i < 100; i++ {
		x := float64(i) * 0.15
		y := float64(i) * 0.25
		z := float64(i) * 0.35
		if g1.Eval3(x, y, z) != g2.Eval3(x, y, z) {
			t.Fatalf("Eval3 not deterministic at (%f, %f, %f)", x, y, z)
		}
	}
}

func TestEval3Range(t *testing.T) {
	g := New(42)

	for i := 0; i < 10000; i++ {
		x := float64(i)*0.37 - 500
		y := float64(i)*0.53 - 500
		z := float64(i)*0.71 - 500
		v := g.Eval3(x, y, z)
		if v < -1.0 || v > 1.0 {
			t.Fatalf("Eval3(%f, %f, %f) = %f, out of [-1,1]", x, y, z, v)
		}
	}
}

func TestDifferentSeedsDifferentNoise(t *testing.T) {
	g1 := New(1)
	g2 := New(2)

	different := false
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.1
		y := float64(i) * 0.2
		if g1.Eval2(x, y) != g2.Eval2(x, y) {
			different = true
			break
		}
	}
	if !different {
		t.Error("different seeds should produce different noise")
	}
}

func TestOctave3Range(t *testing.T) {
	g := New(123)

	for i := 0; i < 1000; i++ {
		x := float64(i)*0.1 - 50
		y := float64(i)*0.2 - 50
		z := float64(i)*0.15 - 50
		v := g.Octave3(x, y, z, 4, 0.5)
		if v < -1.0 || v > 1.0 {
			t.Fatalf("Octave3 = %f, out of [-1,1]", v)
		}
	}
}
