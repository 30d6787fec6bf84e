// Package preview rasterizes a bake output on the CPU.
//
// It projects the baked triangles through a view-projection matrix and fills
// them into an image.RGBA with golang.org/x/image/vector. There is no depth
// buffer: triangles are painted far to near, which is exact for the convex
// primitives the geometry package produces and a good approximation for
// scenes of them. Triangles that cross the near plane are skipped.
//
// The preview is meant for headless runs and golden tests, not for display.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/gogpu/g3d/bake"
)

// DefaultBackground matches the renderer's default clear color.
var DefaultBackground = color.RGBA{R: 26, G: 26, B: 38, A: 255}

// Stats describes one preview frame.
type Stats struct {
	Triangles int // submitted by the bake
	Drawn     int
	Clipped   int // behind the camera or crossing the near plane
}

type triangle struct {
	pts   [3][2]float32
	depth float32
	color color.RGBA
}

// Renderer draws bake outputs into an RGBA image. It reuses its image and
// scratch buffers between frames; it is not safe for concurrent use.
type Renderer struct {
	width      int
	height     int
	background color.RGBA
	img        *image.RGBA
	ras        *vector.Rasterizer
	tris       []triangle
}

// New returns a preview renderer for a width x height image. Non-positive
// sizes are raised to 1.
func New(width, height int) *Renderer {
	width, height = max(width, 1), max(height, 1)
	return &Renderer{
		width:      width,
		height:     height,
		background: DefaultBackground,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		ras:        vector.NewRasterizer(width, height),
	}
}

// SetBackground sets the fill color used before drawing.
func (r *Renderer) SetBackground(c color.RGBA) { r.background = c }

// Resize changes the output size. The next Render allocates a new image.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.width, r.height = width, height
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Image returns the last rendered image.
func (r *Renderer) Image() *image.RGBA { return r.img }

// Render clears the image and draws out as seen through viewProj. Each
// draw's model matrix is applied, so both bake policies give the same
// picture. The returned image is owned by r and overwritten by the next call.
func (r *Renderer) Render(out *bake.Output, viewProj mgl32.Mat4) (*image.RGBA, Stats) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	r.tris = r.tris[:0]
	stats := Stats{Triangles: out.TriangleCount()}
	for _, d := range out.Draws {
		mvp := viewProj.Mul4(d.Model)
		idx := out.Indices[d.FirstIndex : d.FirstIndex+d.IndexCount]
		for i := 0; i+2 < len(idx); i += 3 {
			t, ok := r.project(mvp, out.Vertices, idx[i], idx[i+1], idx[i+2])
			if !ok {
				stats.Clipped++
				continue
			}
			r.tris = append(r.tris, t)
		}
	}

	// Far to near; the stable sort keeps draw order among equal depths.
	slices.SortStableFunc(r.tris, func(a, b triangle) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	for i := range r.tris {
		r.fill(&r.tris[i])
		stats.Drawn++
	}
	return r.img, stats
}

func (r *Renderer) project(mvp mgl32.Mat4, verts []bake.Vertex, a, b, c uint32) (triangle, bool) {
	var t triangle
	for k, vi := range [3]uint32{a, b, c} {
		p := verts[vi].Position
		clip := mvp.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
		// Depth range is [0, w]; anything outside is behind or past the
		// near plane.
		if clip[3] <= 0 || clip[2] < 0 {
			return triangle{}, false
		}
		ndcX, ndcY, ndcZ := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
		t.pts[k] = [2]float32{
			(ndcX + 1) * 0.5 * float32(r.width),
			(1 - ndcY) * 0.5 * float32(r.height),
		}
		t.depth += ndcZ / 3
	}
	col := verts[a].Color
	t.color = color.RGBA{R: unit8(col[0]), G: unit8(col[1]), B: unit8(col[2]), A: 255}
	return t, true
}

func (r *Renderer) fill(t *triangle) {
	r.ras.Reset(r.width, r.height)
	r.ras.DrawOp = draw.Over
	r.ras.MoveTo(t.pts[0][0], t.pts[0][1])
	r.ras.LineTo(t.pts[1][0], t.pts[1][1])
	r.ras.LineTo(t.pts[2][0], t.pts[2][1])
	r.ras.ClosePath()
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(t.color), image.Point{})
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
