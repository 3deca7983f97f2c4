package upload

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/config"
	"lodterrain/internal/meshing"
	"lodterrain/internal/terrain"
	"lodterrain/internal/world"
)

type chunkList []*world.Chunk

func (l chunkList) ForEachActive(fn func(c *world.Chunk)) {
	for _, c := range l {
		fn(c)
	}
}

func chunk(x, y, z int, lod uint8, quads ...meshing.Quad) *world.Chunk {
	return &world.Chunk{
		Key:      world.Key{X: x, Z: z, LOD: lod},
		Position: world.Position{X: x, Y: y, Z: z},
		Quads:    quads,
	}
}

func TestUploadRangesAndScaling(t *testing.T) {
	u := New(1<<16, meshing.NewLight(mgl32.Vec3{0, 1, 0}, 0.2))
	top := meshing.Quad{X: 1, Y: 2, Z: 0, L0: 2, L1: 1, Normal: meshing.PosY, Palette: meshing.PaletteTop}
	wall := meshing.Quad{X: 4, Y: 0, Z: 0, L0: 1, L1: 1, Normal: meshing.PosX, Palette: meshing.PalettePosX}
	src := chunkList{
		chunk(0, -8, 0, 0, top),
		chunk(256, 16, -128, 2, top, wall),
	}
	f := u.Upload(src)

	if len(f.Ranges) != 2 || f.Quads() != 3 {
		t.Fatalf("ranges %d quads %d", len(f.Ranges), f.Quads())
	}
	if r := f.Ranges[1]; r.VertexOffset != 4 || r.IndexCount != 12 || r.LOD != 2 {
		t.Fatalf("second range %+v", r)
	}
	// LOD 2 cells are 4 blocks wide: the top quad starts at origin + (4, 8, 0).
	first := f.Vertices[4].Position
	if want := (mgl32.Vec3{260, 24, -128}); first != want {
		t.Fatalf("first LOD2 vertex %v, want %v", first, want)
	}
	for _, v := range f.Vertices[8:12] {
		if v.Position.X() != 256+16 {
			t.Fatalf("+X wall vertex %v off plane x=272", v.Position)
		}
		if v.Shade != 0.2 {
			t.Fatalf("wall shade %v, want ambient", v.Shade)
		}
	}
	if got := len(u.Indices()); got < 12 {
		t.Fatalf("shared indices %d, want at least 12", got)
	}
}

func TestUploadDoubleBuffers(t *testing.T) {
	u := New(1<<16, meshing.Light{})
	q := meshing.Quad{L0: 1, L1: 1, Normal: meshing.PosY}
	a := u.Upload(chunkList{chunk(0, 0, 0, 0, q)})
	if u.Front() != a || a.Serial != 1 {
		t.Fatalf("front frame not published")
	}
	snapshot := append([]meshing.Vertex(nil), a.Vertices...)

	b := u.Upload(chunkList{chunk(64, 0, 0, 1, q, q)})
	if a == b {
		t.Fatal("consecutive uploads reused the published frame")
	}
	if u.Front() != b || b.Serial != 2 {
		t.Fatal("second frame not published")
	}
	for i := range snapshot {
		if a.Vertices[i] != snapshot[i] {
			t.Fatal("previous front frame modified while second frame was built")
		}
	}
}

func TestUploadPanicsOverIndexCap(t *testing.T) {
	u := New(6, meshing.Light{})
	q := meshing.Quad{L0: 1, L1: 1, Normal: meshing.PosY}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for chunk over the index cap")
		}
	}()
	u.Upload(chunkList{chunk(0, 0, 0, 0, q, q)})
}

func TestUploadFromWorld(t *testing.T) {
	cfg := config.Default()
	cfg.Chunk.Size = 16
	cfg.Chunk.MaxLOD = 2
	cfg.Workers = 2
	w := world.New(cfg, terrain.Flat(0), nil)
	defer w.Close()
	w.SetViewpoint(mgl32.Vec3{})
	w.GenerateChunks()
	w.Wait()
	w.IntegrateCompleted()

	u := New(cfg.Upload.MaxIndicesPerChunk, meshing.Light{})
	f := u.Upload(w)
	if len(f.Ranges) != w.Tree().LeafCount() {
		t.Fatalf("ranges %d, leaves %d", len(f.Ranges), w.Tree().LeafCount())
	}
	// Flat terrain: one top quad per chunk.
	for _, r := range f.Ranges {
		if r.IndexCount != meshing.IndicesPerQuad {
			t.Fatalf("range %+v, want a single quad", r)
		}
	}
}

func TestReturnToCachedAreaRepublishes(t *testing.T) {
	cfg := config.Default()
	cfg.Chunk.Size = 16
	cfg.Chunk.MaxLOD = 2
	cfg.Workers = 2
	w := world.New(cfg, terrain.Flat(3), nil)
	defer w.Close()
	u := New(cfg.Upload.MaxIndicesPerChunk, meshing.Light{})

	home := mgl32.Vec3{8, 0, 8}
	away := mgl32.Vec3{200, 0, 200}
	tick := func(p mgl32.Vec3) bool {
		if w.Update(p) {
			u.Upload(w)
			return true
		}
		return false
	}

	tick(home)
	w.Wait()
	tick(home)
	tick(away)
	w.Wait()
	tick(away)

	// Every leaf around home is still cached: nothing is generated, but the
	// active set changes and must be published.
	if !tick(home) {
		t.Fatal("Update reported no change after returning to a cached area")
	}
	if st := w.Stats(); st.Loading != 0 || st.Active != st.Leaves {
		t.Fatalf("home chunks not served from cache: %+v", st)
	}

	active := make(map[world.Key]bool)
	for _, c := range w.ActiveChunks() {
		active[c.Key] = true
	}
	f := u.Front()
	if len(f.Ranges) != len(active) {
		t.Fatalf("front frame has %d ranges, %d chunks active", len(f.Ranges), len(active))
	}
	for _, r := range f.Ranges {
		c, ok := w.Chunk(r.Key)
		if !active[r.Key] || !ok || !c.Active() {
			t.Fatalf("front frame draws %+v, which is not in the current tree", r.Key)
		}
	}
}
