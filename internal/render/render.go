// Package render rasterizes a scene document into a still image on the CPU,
// so previews work without a window or GPU context.
package render

import (
	"fmt"
	"image"

	"quickdock/internal/scenedoc"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

// Options controls how a document is rasterized.
type Options struct {
	// Supersample renders at a multiple of the output size and downsamples
	// with Catmull-Rom, which smooths edges without a GPU. 0 or 1 disables it.
	Supersample int
}

// DefaultOptions is what the CLI renders previews with.
var DefaultOptions = Options{Supersample: 2}

// Render rasterizes the document at its current frame into an image of the
// document's render size. The camera must be set; objects without a mesh
// (empties) are skipped. The camera looks down its local -Z axis with +Y up.
func Render(doc *scenedoc.Document, opts Options) (*image.RGBA, error) {
	if doc.Camera == nil {
		return nil, fmt.Errorf("render: document has no camera")
	}
	w, h := doc.Render.Width, doc.Render.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: bad output size %dx%d", w, h)
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	big := renderAt(doc, w*ss, h*ss)
	if ss == 1 {
		return big, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	return out, nil
}

func renderAt(doc *scenedoc.Document, w, h int) *image.RGBA {
	bg := mgl32.Vec3{}
	if doc.World != nil {
		bg = doc.World.Color.Mul(doc.World.Strength)
	}
	fb := newFramebuffer(w, h, bg)

	cam := doc.Camera
	view := scenedoc.Compose(cam.Position, cam.Rotation, mgl32.Vec3{1, 1, 1}).Inv()
	aspect := float32(doc.Render.Width) / float32(doc.Render.Height)
	viewProj := mgl32.Perspective(mgl32.DegToRad(cam.FOVDeg), aspect, cam.Near, cam.Far).Mul4(view)

	for _, o := range doc.Objects {
		if o.Mesh == nil {
			continue
		}
		model := o.WorldMatrix()
		// Inverse transpose keeps normals straight under non-uniform scale.
		normalM := model.Inv().Transpose().Mat3()
		mvp := viewProj.Mul4(model)

		mesh := o.Mesh
		verts := make([]rasterVert, len(mesh.Positions))
		for i, p := range mesh.Positions {
			n := normalM.Mul3x1(mesh.Normals[i])
			if l := n.Len(); l > 0 {
				n = n.Mul(1 / l)
			}
			verts[i] = rasterVert{
				clip:   mvp.Mul4x1(p.Vec4(1)),
				world:  model.Mul4x1(p.Vec4(1)).Vec3(),
				normal: n,
			}
		}

		mat := o.Material
		shadeFn := func(p, n mgl32.Vec3) mgl32.Vec3 {
			return shadePoint(p, n, cam.Position, mat, doc.Lights)
		}
		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			fb.triangle(verts[mesh.Indices[i]], verts[mesh.Indices[i+1]], verts[mesh.Indices[i+2]], shadeFn)
		}
	}
	return fb.resolve()
}
