// Package meshgen builds triangle meshes for the primitive shapes the scene
// document knows about: cubes, planes, cylinders, and cones. All shapes are
// generated centered on the origin with +Z up, matching the document's axis
// convention. Geometry parameters are baked into the vertex data; object-level
// scale is applied later through the scene graph.
package meshgen

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Recipe kinds understood by Build.
const (
	KindCube     = "cube"
	KindPlane    = "plane"
	KindCylinder = "cylinder"
	KindCone     = "cone"
)

// Default segment counts for round shapes.
const (
	DefaultCylinderSegments = 32
	DefaultConeSegments     = 24
)

// Mesh is an indexed triangle mesh. Positions, Normals, and TexCoords run in
// parallel; Indices reference them in groups of three.
type Mesh struct {
	Name      string
	Recipe    Recipe
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Recipe records the parameters a mesh was generated from so a saved scene
// can rebuild identical geometry on load.
type Recipe struct {
	Kind         string  `yaml:"kind"`
	Size         float32 `yaml:"size,omitempty"`
	Radius       float32 `yaml:"radius,omitempty"`
	RadiusBottom float32 `yaml:"radius_bottom,omitempty"`
	RadiusTop    float32 `yaml:"radius_top,omitempty"`
	Depth        float32 `yaml:"depth,omitempty"`
	Segments     int     `yaml:"segments,omitempty"`
}

// Build regenerates the mesh described by the recipe.
func (r Recipe) Build(name string) (*Mesh, error) {
	switch r.Kind {
	case KindCube:
		return Cube(name, r.Size), nil
	case KindPlane:
		return Plane(name, r.Size), nil
	case KindCylinder:
		return Cylinder(name, r.Radius, r.Depth, r.Segments), nil
	case KindCone:
		return Cone(name, r.RadiusBottom, r.RadiusTop, r.Depth, r.Segments), nil
	default:
		return nil, fmt.Errorf("meshgen: unknown recipe kind %q", r.Kind)
	}
}

// Cube returns a size x size x size cube centered on the origin, built as six
// independent faces so each face has a flat normal and its own 0..1 UVs.
func Cube(name string, size float32) *Mesh {
	if size <= 0 {
		size = 1
	}
	m := &Mesh{Name: name, Recipe: Recipe{Kind: KindCube, Size: size}}
	h := size * 0.5

	// +Z, -Z, +X, -X, +Y, -Y. Corners are counter-clockwise seen from outside.
	m.addQuad(
		mgl32.Vec3{-h, -h, h}, mgl32.Vec3{h, -h, h}, mgl32.Vec3{h, h, h}, mgl32.Vec3{-h, h, h},
		mgl32.Vec3{0, 0, 1})
	m.addQuad(
		mgl32.Vec3{-h, h, -h}, mgl32.Vec3{h, h, -h}, mgl32.Vec3{h, -h, -h}, mgl32.Vec3{-h, -h, -h},
		mgl32.Vec3{0, 0, -1})
	m.addQuad(
		mgl32.Vec3{h, -h, -h}, mgl32.Vec3{h, h, -h}, mgl32.Vec3{h, h, h}, mgl32.Vec3{h, -h, h},
		mgl32.Vec3{1, 0, 0})
	m.addQuad(
		mgl32.Vec3{-h, h, -h}, mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{-h, -h, h}, mgl32.Vec3{-h, h, h},
		mgl32.Vec3{-1, 0, 0})
	m.addQuad(
		mgl32.Vec3{h, h, -h}, mgl32.Vec3{-h, h, -h}, mgl32.Vec3{-h, h, h}, mgl32.Vec3{h, h, h},
		mgl32.Vec3{0, 1, 0})
	m.addQuad(
		mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{h, -h, -h}, mgl32.Vec3{h, -h, h}, mgl32.Vec3{-h, -h, h},
		mgl32.Vec3{0, -1, 0})
	return m
}

// Plane returns a size x size quad in the XY plane facing +Z.
func Plane(name string, size float32) *Mesh {
	if size <= 0 {
		size = 1
	}
	m := &Mesh{Name: name, Recipe: Recipe{Kind: KindPlane, Size: size}}
	h := size * 0.5
	m.addQuad(
		mgl32.Vec3{-h, -h, 0}, mgl32.Vec3{h, -h, 0}, mgl32.Vec3{h, h, 0}, mgl32.Vec3{-h, h, 0},
		mgl32.Vec3{0, 0, 1})
	return m
}

// Cylinder returns a capped cylinder of the given radius and depth along Z.
// segments below 3 falls back to DefaultCylinderSegments.
func Cylinder(name string, radius, depth float32, segments int) *Mesh {
	if segments < 3 {
		segments = DefaultCylinderSegments
	}
	m := coneSector(radius, radius, depth, segments)
	m.Name = name
	m.Recipe = Recipe{Kind: KindCylinder, Radius: radius, Depth: depth, Segments: segments}
	return m
}

// Cone returns a capped cone (or frustum when radiusTop > 0) along Z, with
// radiusBottom at -depth/2 and radiusTop at +depth/2. segments below 3 falls
// back to DefaultConeSegments.
func Cone(name string, radiusBottom, radiusTop, depth float32, segments int) *Mesh {
	if segments < 3 {
		segments = DefaultConeSegments
	}
	m := coneSector(radiusBottom, radiusTop, depth, segments)
	m.Name = name
	m.Recipe = Recipe{
		Kind:         KindCone,
		RadiusBottom: radiusBottom,
		RadiusTop:    radiusTop,
		Depth:        depth,
		Segments:     segments,
	}
	return m
}

// coneSector generates the shared cylinder/cone lattice: a two-row side wall
// with a duplicated seam column for clean UVs, plus a triangle-fan cap for
// every end whose radius is positive. A zero top radius collapses the top row
// onto the apex, one triangle per segment.
func coneSector(radiusBottom, radiusTop, depth float32, segments int) *Mesh {
	if depth <= 0 {
		depth = 1
	}
	if radiusBottom < 0 {
		radiusBottom = 0
	}
	if radiusTop < 0 {
		radiusTop = 0
	}
	m := &Mesh{}
	halfDepth := depth * 0.5
	// Outward side normals tilt by the wall slope.
	slope := (radiusBottom - radiusTop) / depth

	rows := [2]struct {
		radius float32
		z      float32
	}{
		{radiusBottom, -halfDepth},
		{radiusTop, halfDepth},
	}
	for j, row := range rows {
		for i := 0; i <= segments; i++ {
			theta := 2 * math32.Pi * float32(i) / float32(segments)
			cos := math32.Cos(theta)
			sin := math32.Sin(theta)
			m.Positions = append(m.Positions, mgl32.Vec3{row.radius * cos, row.radius * sin, row.z})
			m.Normals = append(m.Normals, mgl32.Vec3{cos, sin, slope}.Normalize())
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{float32(i) / float32(segments), float32(j)})
		}
	}
	topRow := uint32(segments + 1)
	for i := 0; i < segments; i++ {
		b0 := uint32(i)
		b1 := uint32(i + 1)
		t0 := topRow + uint32(i)
		t1 := topRow + uint32(i+1)
		if radiusTop > 0 {
			m.Indices = append(m.Indices, b0, b1, t1, b0, t1, t0)
		} else {
			m.Indices = append(m.Indices, b0, b1, t0)
		}
	}

	if radiusBottom > 0 {
		m.addCap(radiusBottom, -halfDepth, segments, false)
	}
	if radiusTop > 0 {
		m.addCap(radiusTop, halfDepth, segments, true)
	}
	return m
}

// addCap appends a triangle-fan disc at the given height. up selects the
// facing direction and the matching winding.
func (m *Mesh) addCap(radius, z float32, segments int, up bool) {
	nz := float32(-1)
	if up {
		nz = 1
	}
	center := uint32(len(m.Positions))
	m.Positions = append(m.Positions, mgl32.Vec3{0, 0, z})
	m.Normals = append(m.Normals, mgl32.Vec3{0, 0, nz})
	m.TexCoords = append(m.TexCoords, mgl32.Vec2{0.5, 0.5})
	for i := 0; i < segments; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(segments)
		cos := math32.Cos(theta)
		sin := math32.Sin(theta)
		m.Positions = append(m.Positions, mgl32.Vec3{radius * cos, radius * sin, z})
		m.Normals = append(m.Normals, mgl32.Vec3{0, 0, nz})
		m.TexCoords = append(m.TexCoords, mgl32.Vec2{0.5 + 0.5*cos, 0.5 + 0.5*sin})
	}
	ring := center + 1
	for i := 0; i < segments; i++ {
		next := uint32((i + 1) % segments)
		if up {
			m.Indices = append(m.Indices, center, ring+uint32(i), ring+next)
		} else {
			m.Indices = append(m.Indices, center, ring+next, ring+uint32(i))
		}
	}
}

// addQuad appends one rectangular face as two triangles. Corners must be
// counter-clockwise when viewed from the normal side.
func (m *Mesh) addQuad(a, b, c, d, normal mgl32.Vec3) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, a, b, c, d)
	m.Normals = append(m.Normals, normal, normal, normal, normal)
	m.TexCoords = append(m.TexCoords,
		mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{0, 1})
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}
