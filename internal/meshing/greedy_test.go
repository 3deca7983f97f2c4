package meshing

import (
	"math/rand"
	"reflect"
	"testing"
)

// cover rasterizes quads over a width x height slice, counting hits per cell.
func cover(t *testing.T, quads []Quad, width, height int) []int {
	t.Helper()
	hits := make([]int, width*height)
	for _, q := range quads {
		ua, va := q.Normal.Plane()
		u0, v0 := q.Coord(ua), q.Coord(va)
		if q.L0 < 1 || q.L1 < 1 {
			t.Fatalf("quad %v has empty run length", q)
		}
		if u0+int(q.L0) > width || v0+int(q.L1) > height {
			t.Fatalf("quad %v exceeds %dx%d slice", q, width, height)
		}
		for v := v0; v < v0+int(q.L1); v++ {
			for u := u0; u < u0+int(q.L0); u++ {
				hits[v*width+u]++
			}
		}
	}
	return hits
}

func randomMask(rng *rand.Rand, n int, density float64) []bool {
	m := make([]bool, n)
	for i := range m {
		m[i] = rng.Float64() < density
	}
	return m
}

func TestGreedySliceCoversMaskExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		width := 1 + rng.Intn(40)
		height := 1 + rng.Intn(40)
		mask := randomMask(rng, width*height, rng.Float64())
		want := append([]bool(nil), mask...)
		n := Normal(rng.Intn(NumNormals))

		quads := GreedySlice(mask, width, height, Quad{Normal: n, Palette: 7}, nil)
		hits := cover(t, quads, width, height)
		for i, h := range hits {
			switch {
			case h > 1:
				t.Fatalf("iter %d: cell %d covered %d times", iter, i, h)
			case want[i] && h == 0:
				t.Fatalf("iter %d: set cell %d not covered", iter, i)
			case !want[i] && h != 0:
				t.Fatalf("iter %d: empty cell %d covered", iter, i)
			}
		}
		for _, q := range quads {
			if q.Normal != n || q.Palette != 7 {
				t.Fatalf("quad %v lost base fields", q)
			}
		}
		for i, set := range mask {
			if set {
				t.Fatalf("iter %d: mask cell %d not consumed", iter, i)
			}
		}
	}
}

func TestGreedySliceDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	mask := randomMask(rng, 64*64, 0.6)
	a := GreedySlice(append([]bool(nil), mask...), 64, 64, Quad{Normal: PosY}, nil)
	b := GreedySlice(append([]bool(nil), mask...), 64, 64, Quad{Normal: PosY}, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same mask produced different quad lists (%d vs %d quads)", len(a), len(b))
	}
}

func TestGreedySliceEdgeCases(t *testing.T) {
	if q := GreedySlice(make([]bool, 16), 4, 4, Quad{Normal: PosY}, nil); len(q) != 0 {
		t.Fatalf("empty mask: got %d quads", len(q))
	}

	island := make([]bool, 9)
	island[4] = true
	q := GreedySlice(island, 3, 3, Quad{Normal: NegX, X: 5}, nil)
	if len(q) != 1 {
		t.Fatalf("1x1 island: got %d quads", len(q))
	}
	// NegX in-plane axes are (Y, Z).
	want := Quad{X: 5, Y: 1, Z: 1, L0: 1, L1: 1, Normal: NegX}
	if q[0] != want {
		t.Fatalf("1x1 island: got %v, want %v", q[0], want)
	}

	full := make([]bool, 5*3)
	for i := range full {
		full[i] = true
	}
	q = GreedySlice(full, 5, 3, Quad{Normal: PosZ}, nil)
	if len(q) != 1 || q[0].L0 != 5 || q[0].L1 != 3 {
		t.Fatalf("full mask: got %v", q)
	}
}

func TestGreedySliceExtendsRightThenDown(t *testing.T) {
	// ##.
	// ###
	mask := []bool{
		true, true, false,
		true, true, true,
	}
	q := GreedySlice(mask, 3, 2, Quad{Normal: PosY}, nil)
	want := []Quad{
		{X: 0, Z: 0, L0: 2, L1: 2, Normal: PosY},
		{X: 2, Z: 1, L0: 1, L1: 1, Normal: PosY},
	}
	if !reflect.DeepEqual(q, want) {
		t.Fatalf("got %v, want %v", q, want)
	}
}

func TestGreedySlicePanicsOnShortMask(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for undersized mask")
		}
	}()
	GreedySlice(make([]bool, 3), 2, 2, Quad{Normal: PosY}, nil)
}

func TestMeshVolumeSingleCell(t *testing.T) {
	v := NewVolume(4)
	v.Set(1, 2, 3, true)
	quads := MeshVolume(v, nil)
	if len(quads) != 6 {
		t.Fatalf("single cell: got %d quads, want 6", len(quads))
	}
	seen := map[Normal]Quad{}
	for _, q := range quads {
		seen[q.Normal] = q
	}
	if q := seen[PosX]; q.X != 2 || q.Y != 2 || q.Z != 3 {
		t.Errorf("+X face at %v, want plane x=2", q)
	}
	if q := seen[NegY]; q.X != 1 || q.Y != 2 || q.Z != 3 {
		t.Errorf("-Y face at %v, want plane y=2", q)
	}
}

func TestMeshVolumeMergesAndCullsWithHalo(t *testing.T) {
	const s = 4
	v := NewVolume(s)
	// Solid bottom layer y=0.
	for z := 0; z < s; z++ {
		for x := 0; x < s; x++ {
			v.Set(x, 0, z, true)
		}
	}
	// Solid terrain continues beyond every side and below.
	for _, n := range []Normal{PosX, NegX, PosZ, NegZ, NegY} {
		ua, va := n.Plane()
		for cv := 0; cv < s; cv++ {
			for cu := 0; cu < s; cu++ {
				var p [3]int
				p[ua], p[va] = cu, cv
				v.Halo[n][cv*s+cu] = n == NegY || p[AxisY] == 0
			}
		}
	}
	quads := MeshVolume(v, nil)
	if len(quads) != 1 {
		t.Fatalf("got %d quads (%v), want a single top face", len(quads), quads)
	}
	if q := quads[0]; q.Normal != PosY || q.Y != 1 || q.L0 != s || q.L1 != s {
		t.Fatalf("got %v, want 4x4 top face at y=1", q)
	}

	// Empty halo on +X exposes the whole east wall as one quad.
	clear(v.Halo[PosX])
	quads = MeshVolume(v, nil)
	if len(quads) != 2 {
		t.Fatalf("with open +X side: got %d quads, want 2", len(quads))
	}
}

func TestNormalPlanes(t *testing.T) {
	for n := Normal(0); n < NumNormals; n++ {
		ua, va := n.Plane()
		if ua == n.Axis() || va == n.Axis() || ua == va {
			t.Errorf("%v: plane (%d,%d) overlaps axis %d", n, ua, va, n.Axis())
		}
		if n.Vec().Len() != 1 {
			t.Errorf("%v: vector %v not unit", n, n.Vec())
		}
	}
	if Normal(9).Valid() {
		t.Error("Normal(9) reported valid")
	}
}
