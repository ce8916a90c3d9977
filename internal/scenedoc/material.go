package scenedoc

import "github.com/go-gl/mathgl/mgl32"

// Material is a named surface description: a base color plus the two
// principled scalars the tooling drives. Creating a material never checks
// for an existing name; two calls with the same name yield two distinct
// materials, and MaterialByName answers with the first one added.
type Material struct {
	Name      string
	BaseColor mgl32.Vec4
	Roughness float32
	Metallic  float32
}

// NewMaterial appends a material with the given base color (alpha forced to
// 1) and principled scalars.
func (d *Document) NewMaterial(name string, color mgl32.Vec3, roughness, metallic float32) *Material {
	m := &Material{
		Name:      name,
		BaseColor: mgl32.Vec4{color.X(), color.Y(), color.Z(), 1},
		Roughness: roughness,
		Metallic:  metallic,
	}
	d.Materials = append(d.Materials, m)
	return m
}

// MaterialByName returns the first material with the given name.
func (d *Document) MaterialByName(name string) (*Material, bool) {
	for _, m := range d.Materials {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// MaterialIndex returns the position of the material in the document list,
// or -1 when the material is not part of this document.
func (d *Document) MaterialIndex(m *Material) int {
	for i, c := range d.Materials {
		if c == m {
			return i
		}
	}
	return -1
}
