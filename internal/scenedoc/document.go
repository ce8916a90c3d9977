// Package scenedoc models a 3D authoring document: a scene graph of named
// objects with parented transforms, materials, lights, a camera, a world
// background, and keyframe animation state. A Document is an explicit handle;
// the package keeps no globals, so independent documents never interact.
package scenedoc

import (
	"fmt"

	"quickdock/internal/meshgen"

	"github.com/go-gl/mathgl/mgl32"
)

// Light kinds stored on a document.
const (
	LightArea  = "area"
	LightPoint = "point"
)

// Light is a document-owned lamp. Lights live beside the object tree rather
// than inside it.
type Light struct {
	Name     string
	Kind     string
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Energy   float32 // watts
	Size     float32 // edge length of an area lamp
}

// Camera is the viewpoint used by preview renders and exports.
type Camera struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	FOVDeg   float32 // vertical field of view
	Near     float32
	Far      float32
}

// World is the background environment: a flat color scaled by strength.
type World struct {
	Color    mgl32.Vec3
	Strength float32
}

// RenderSettings carries the preview output configuration.
type RenderSettings struct {
	Width      int
	Height     int
	FrameStart int
	FrameEnd   int
	OutPath    string
}

// Document owns one scene: objects in insertion order, their mesh data,
// materials, lights, a camera, the world background, render settings, and
// the current animation frame.
type Document struct {
	Objects   []*Object
	Meshes    []*meshgen.Mesh
	Materials []*Material
	Lights    []*Light
	Camera    *Camera
	World     *World
	Render    RenderSettings
	Frame     int
}

// New returns an empty document positioned at frame 1.
func New() *Document {
	return &Document{Frame: 1}
}

// Clear removes every object and light, the camera, and all mesh data (none
// of it is referenced once the objects are gone). Materials survive, the way
// authoring sessions keep them around for reuse. Clearing twice is a no-op.
func (d *Document) Clear() {
	d.Objects = nil
	d.Meshes = nil
	d.Lights = nil
	d.Camera = nil
}

// NewObject adds an empty (meshless) object with an identity pose. New
// objects start selected, the way interactive hosts leave fresh objects.
func (d *Document) NewObject(name string) *Object {
	o := &Object{
		Name:          name,
		Scale:         mgl32.Vec3{1, 1, 1},
		Rotation:      mgl32.QuatIdent(),
		ParentInverse: mgl32.Ident4(),
		Selected:      true,
		doc:           d,
	}
	d.Objects = append(d.Objects, o)
	return o
}

// NewMeshObject adds an object carrying the given mesh and registers the
// mesh data on the document.
func (d *Document) NewMeshObject(name string, mesh *meshgen.Mesh) *Object {
	o := d.NewObject(name)
	o.Mesh = mesh
	d.Meshes = append(d.Meshes, mesh)
	return o
}

// ObjectByName returns the first object with the given name.
func (d *Document) ObjectByName(name string) (*Object, bool) {
	for _, o := range d.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// SetParent links child under parent with no transform compensation, the
// plain ownership assignment used while assembling a rig around the origin.
func (d *Document) SetParent(child, parent *Object) error {
	if err := d.checkParenting(child, parent); err != nil {
		return err
	}
	child.Parent = parent
	child.ParentInverse = mgl32.Ident4()
	child.ParentFrame = 0
	return nil
}

// ReparentKeepWorld hands child to a new parent effective at the given
// frame, preserving the child's world transform at that frame. It poses the
// document at the frame, stores the inverse of the parent's world matrix as
// the child's parent-inverse compensation, and rewrites the child's local
// pose from its recorded world transform. Before the frame the child stays
// where its own pose puts it; from the frame on it follows the parent.
func (d *Document) ReparentKeepWorld(child, parent *Object, frame int) error {
	if err := d.checkParenting(child, parent); err != nil {
		return err
	}
	d.ApplyFrame(frame)
	world := child.WorldMatrix()
	inv := parent.WorldMatrix().Inv()

	child.Parent = parent
	child.ParentFrame = frame
	child.ParentInverse = inv
	child.Position, child.Rotation, child.Scale = Decompose(world)
	return nil
}

func (d *Document) checkParenting(child, parent *Object) error {
	if child == nil || parent == nil {
		return fmt.Errorf("scenedoc: parenting needs both a child and a parent")
	}
	if !d.owns(child) {
		return fmt.Errorf("scenedoc: object %q is not part of this document", child.Name)
	}
	if !d.owns(parent) {
		return fmt.Errorf("scenedoc: parent %q is not part of this document", parent.Name)
	}
	if child == parent {
		return fmt.Errorf("scenedoc: object %q cannot be its own parent", child.Name)
	}
	for p := parent.Parent; p != nil; p = p.Parent {
		if p == child {
			return fmt.Errorf("scenedoc: parenting %q under %q would form a cycle", child.Name, parent.Name)
		}
	}
	return nil
}

func (d *Document) owns(o *Object) bool {
	for _, c := range d.Objects {
		if c == o {
			return true
		}
	}
	return false
}

// ApplyFrame poses every animated object at the given frame and records it
// as the document's current frame. Objects without tracks keep their pose.
func (d *Document) ApplyFrame(frame int) {
	d.Frame = frame
	f := float32(frame)
	for _, o := range d.Objects {
		for _, t := range o.Tracks {
			if len(t.Keys) == 0 {
				continue
			}
			switch t.Channel {
			case ChannelLocation:
				o.Position = t.Evaluate(f)
			case ChannelScale:
				o.Scale = t.Evaluate(f)
			}
		}
	}
}

// DeselectAll clears the selection flag on every object.
func (d *Document) DeselectAll() {
	for _, o := range d.Objects {
		o.Selected = false
	}
}

// AddLight appends a lamp with a default white color.
func (d *Document) AddLight(name, kind string, pos mgl32.Vec3, energy, size float32) *Light {
	l := &Light{
		Name:     name,
		Kind:     kind,
		Position: pos,
		Color:    mgl32.Vec3{1, 1, 1},
		Energy:   energy,
		Size:     size,
	}
	d.Lights = append(d.Lights, l)
	return l
}

// SetCamera installs the document camera.
func (d *Document) SetCamera(name string, pos mgl32.Vec3, rot mgl32.Quat, fovDeg float32) *Camera {
	d.Camera = &Camera{Name: name, Position: pos, Rotation: rot, FOVDeg: fovDeg, Near: 0.1, Far: 100}
	return d.Camera
}

// EnsureWorld creates the world background if missing and sets its color
// and strength. Calling it repeatedly is safe.
func (d *Document) EnsureWorld(color mgl32.Vec3, strength float32) *World {
	if d.World == nil {
		d.World = &World{}
	}
	d.World.Color = color
	d.World.Strength = strength
	return d.World
}
