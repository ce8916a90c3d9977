package render

import (
	"image/color"

	"quickdock/internal/scenedoc"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ambientLight is the ambient term, dim and slightly blue so shadow sides
// read as sky fill instead of going pure black.
var ambientLight = mgl32.Vec3{0.2, 0.22, 0.26}

// defaultAlbedo is used for objects without a material.
var defaultAlbedo = mgl32.Vec3{0.8, 0.8, 0.8}

// lightScale converts lamp energy to intensity at distance one under
// inverse-square falloff.
const lightScale = 1.0 / (4 * math32.Pi)

// shadePoint lights one surface point: ambient floor, Lambert diffuse, and a
// Blinn-Phong highlight summed over the scene lights. Normals are flipped
// toward the viewer so open meshes shade double sided. Area lights contribute
// as point sources at their center.
func shadePoint(p, n, eye mgl32.Vec3, mat *scenedoc.Material, lights []*scenedoc.Light) mgl32.Vec3 {
	albedo := defaultAlbedo
	rough, metal := float32(0.5), float32(0)
	if mat != nil {
		albedo = mat.BaseColor.Vec3()
		rough = mat.Roughness
		metal = mat.Metallic
	}

	v := eye.Sub(p)
	if l := v.Len(); l > 0 {
		v = v.Mul(1 / l)
	}
	if n.Dot(v) < 0 {
		n = n.Mul(-1)
	}

	// Rough surfaces get a broad dim highlight, smooth ones a tight bright
	// one. Metals tint the highlight with their base color and lose diffuse.
	specPower := 8 + (1-rough)*(1-rough)*120
	specStrength := 0.08 + 0.55*metal
	specTint := lerpVec3(mgl32.Vec3{1, 1, 1}, albedo, metal)

	out := mulElem(ambientLight, albedo)
	for _, l := range lights {
		toL := l.Position.Sub(p)
		d2 := toL.Dot(toL)
		if d2 < 1e-6 {
			continue
		}
		dir := toL.Mul(1 / math32.Sqrt(d2))
		ndl := n.Dot(dir)
		if ndl <= 0 {
			continue
		}
		lightCol := l.Color.Mul(l.Energy * lightScale / d2)

		out = out.Add(mulElem(albedo, lightCol).Mul(ndl * (1 - metal)))

		h := dir.Add(v)
		if hl := h.Len(); hl > 0 {
			h = h.Mul(1 / hl)
			if ndh := n.Dot(h); ndh > 0 {
				out = out.Add(mulElem(specTint, lightCol).Mul(math32.Pow(ndh, specPower) * specStrength * ndl))
			}
		}
	}
	return out
}

const gamma = 2.2

// toneMap compresses linear HDR to display range, Reinhard then gamma.
func toneMap(c mgl32.Vec3) color.RGBA {
	return color.RGBA{R: encode(c.X()), G: encode(c.Y()), B: encode(c.Z()), A: 255}
}

func encode(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	v = v / (1 + v)
	return uint8(math32.Pow(v, 1/gamma)*255 + 0.5)
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
