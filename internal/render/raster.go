package render

import (
	"image"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// rasterVert is one transformed vertex: clip-space position plus the world
// position and normal used for shading.
type rasterVert struct {
	clip   mgl32.Vec4
	world  mgl32.Vec3
	normal mgl32.Vec3
}

// framebuffer accumulates linear HDR color next to a depth buffer.
type framebuffer struct {
	w, h  int
	color []mgl32.Vec3
	depth []float32
}

func newFramebuffer(w, h int, bg mgl32.Vec3) *framebuffer {
	fb := &framebuffer{
		w:     w,
		h:     h,
		color: make([]mgl32.Vec3, w*h),
		depth: make([]float32, w*h),
	}
	for i := range fb.color {
		fb.color[i] = bg
		fb.depth[i] = math.MaxFloat32
	}
	return fb
}

// minClipW rejects triangles touching or behind the camera plane. They are
// dropped rather than clipped; the demo framing never crosses the near plane.
const minClipW = 1e-4

// triangle rasterizes one triangle with a depth test and perspective-correct
// attribute interpolation, calling shade once per covered pixel. Both
// windings are filled, so open meshes still show their far side.
func (fb *framebuffer) triangle(v0, v1, v2 rasterVert, shade func(p, n mgl32.Vec3) mgl32.Vec3) {
	if v0.clip.W() < minClipW || v1.clip.W() < minClipW || v2.clip.W() < minClipW {
		return
	}
	iw0, iw1, iw2 := 1/v0.clip.W(), 1/v1.clip.W(), 1/v2.clip.W()
	x0, y0, z0 := fb.toScreen(v0.clip, iw0)
	x1, y1, z1 := fb.toScreen(v1.clip, iw1)
	x2, y2, z2 := fb.toScreen(v2.clip, iw2)

	area := edge(x0, y0, x1, y1, x2, y2)
	if area > -1e-6 && area < 1e-6 {
		return
	}
	invArea := 1 / area

	minX := clampInt(int(math32.Floor(min3(x0, x1, x2))), 0, fb.w-1)
	maxX := clampInt(int(math32.Ceil(max3(x0, x1, x2))), 0, fb.w-1)
	minY := clampInt(int(math32.Floor(min3(y0, y1, y2))), 0, fb.h-1)
	maxY := clampInt(int(math32.Ceil(max3(y0, y1, y2))), 0, fb.h-1)

	// Attributes premultiplied by 1/w interpolate linearly in screen space.
	pw0, pw1, pw2 := v0.world.Mul(iw0), v1.world.Mul(iw1), v2.world.Mul(iw2)
	pn0, pn1, pn2 := v0.normal.Mul(iw0), v1.normal.Mul(iw1), v2.normal.Mul(iw2)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(x1, y1, x2, y2, px, py) * invArea
			w1 := edge(x2, y2, x0, y0, px, py) * invArea
			w2 := edge(x0, y0, x1, y1, px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			if z < -1 || z > 1 {
				continue
			}
			idx := y*fb.w + x
			if z >= fb.depth[idx] {
				continue
			}
			iw := w0*iw0 + w1*iw1 + w2*iw2
			if iw <= 0 {
				continue
			}
			k := 1 / iw
			p := pw0.Mul(w0).Add(pw1.Mul(w1)).Add(pw2.Mul(w2)).Mul(k)
			n := pn0.Mul(w0).Add(pn1.Mul(w1)).Add(pn2.Mul(w2)).Mul(k)
			fb.depth[idx] = z
			fb.color[idx] = shade(p, n)
		}
	}
}

// toScreen maps a clip-space position to pixel coordinates (y down) and NDC depth.
func (fb *framebuffer) toScreen(clip mgl32.Vec4, invW float32) (x, y, z float32) {
	x = (clip.X()*invW + 1) * 0.5 * float32(fb.w)
	y = (1 - clip.Y()*invW) * 0.5 * float32(fb.h)
	z = clip.Z() * invW
	return
}

// resolve tone maps the HDR buffer into an 8-bit image.
func (fb *framebuffer) resolve() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.w, fb.h))
	for y := 0; y < fb.h; y++ {
		for x := 0; x < fb.w; x++ {
			img.SetRGBA(x, y, toneMap(fb.color[y*fb.w+x]))
		}
	}
	return img
}

// edge is the signed area of triangle (a, b, p), positive when p lies left of a to b.
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
