// Package preview renders top-down PNG images of the height field with the
// LOD tree drawn over it.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"lodterrain/internal/lod"
	"lodterrain/internal/terrain"
)

// Options controls the rendered image.
type Options struct {
	Step  int  // world blocks per sampled pixel
	Zoom  int  // output pixels per sampled pixel
	Label bool // draw the legend text
}

func DefaultOptions() Options {
	return Options{Step: 8, Zoom: 2, Label: true}
}

// LODColors outlines leaves by LOD, wrapping for deep trees.
var LODColors = []color.RGBA{
	colornames.Red,
	colornames.Orange,
	colornames.Yellow,
	colornames.Lime,
	colornames.Cyan,
	colornames.Dodgerblue,
	colornames.Magenta,
	colornames.White,
}

var (
	lowColor  = colornames.Darkolivegreen
	highColor = colornames.Wheat
)

// Heightmap samples field over a square of size blocks at origin, one pixel
// every step blocks, shaded from low to high.
func Heightmap(field terrain.HeightField, originX, originZ, size, step int) *image.NRGBA {
	if step < 1 {
		step = 1
	}
	px := max(size/step, 1)
	heights := make([]float32, px*px)
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for j := 0; j < px; j++ {
		for i := 0; i < px; i++ {
			h := field.HeightAt(originX+i*step, originZ+j*step)
			heights[j*px+i] = h
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, px, px))
	for j := 0; j < px; j++ {
		for i := 0; i < px; i++ {
			t := float32(0.5)
			if hi > lo {
				t = (heights[j*px+i] - lo) / (hi - lo)
			}
			img.SetNRGBA(i, j, mix(lowColor, highColor, t))
		}
	}
	return img
}

func mix(a, b color.RGBA, t float32) color.NRGBA {
	l := func(x, y uint8) uint8 { return uint8(float32(x) + t*(float32(y)-float32(x)) + 0.5) }
	return color.NRGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: 255}
}

// Render draws the area of tree's root with its leaves outlined.
func Render(field terrain.HeightField, tree *lod.Tree, opts Options) *image.NRGBA {
	if opts.Step < 1 {
		opts.Step = 1
	}
	if opts.Zoom < 1 {
		opts.Zoom = 1
	}
	rx, rz := tree.RootOrigin(tree.Viewpoint())
	size := tree.RootSize()

	small := Heightmap(field, rx, rz, size, opts.Step)
	px := small.Bounds().Dx() * opts.Zoom
	img := image.NewNRGBA(image.Rect(0, 0, px, px))
	draw.NearestNeighbor.Scale(img, img.Bounds(), small, small.Bounds(), draw.Src, nil)

	// world blocks to output pixels
	k := float64(px) / float64(size)
	toPx := func(v, origin int) int { return int(math.Round(float64(v-origin) * k)) }

	leaves := 0
	tree.Leaves(func(n lod.Node) {
		leaves++
		c := LODColors[int(n.LOD)%len(LODColors)]
		outline(img, toPx(n.X, rx), toPx(n.Z, rz), toPx(n.X+n.Size, rx)-1, toPx(n.Z+n.Size, rz)-1, c)
	})

	view := tree.Viewpoint()
	vx := int(math.Round((float64(view[0]) - float64(rx)) * k))
	vz := int(math.Round((float64(view[1]) - float64(rz)) * k))
	for d := -2; d <= 2; d++ {
		setIn(img, vx+d, vz, colornames.Black)
		setIn(img, vx, vz+d, colornames.Black)
	}

	if opts.Label {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colornames.White),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, 13),
		}
		d.DrawString(fmt.Sprintf("view %.0f,%.0f  leaves %d", view[0], view[1], leaves))
	}
	return img
}

func setIn(img *image.NRGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

func outline(img *image.NRGBA, x0, y0, x1, y1 int, c color.Color) {
	for x := x0; x <= x1; x++ {
		setIn(img, x, y0, c)
		setIn(img, x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		setIn(img, x0, y, c)
		setIn(img, x1, y, c)
	}
}

// SavePNG writes img to path, creating the directory if needed.
func SavePNG(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preview dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	return file.Close()
}
