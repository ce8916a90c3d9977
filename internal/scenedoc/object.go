package scenedoc

import (
	"quickdock/internal/meshgen"

	"github.com/go-gl/mathgl/mgl32"
)

// Object is one named node in the document's scene graph. Position, Rotation,
// and Scale form its local pose; Parent links it into a single-parent tree.
// ParentInverse is the usual parent-inverse compensation matrix: the world
// transform is parentWorld * ParentInverse * local. ParentFrame delays the
// parent link so an object can change ownership mid-animation; 0 means the
// link applies on every frame.
type Object struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	Mesh     *meshgen.Mesh
	Material *Material

	Parent        *Object
	ParentInverse mgl32.Mat4
	ParentFrame   int

	Selected bool
	Tracks   []*Track

	doc *Document
}

// SetEuler sets the rotation from XYZ euler angles in degrees.
func (o *Object) SetEuler(xDeg, yDeg, zDeg float32) *Object {
	o.Rotation = EulerDegToQuat(xDeg, yDeg, zDeg)
	return o
}

// LocalMatrix returns the object's local transform.
func (o *Object) LocalMatrix() mgl32.Mat4 {
	return Compose(o.Position, o.Rotation, o.Scale)
}

// ParentActive reports whether the parent link contributes at the document's
// current frame.
func (o *Object) ParentActive() bool {
	if o.Parent == nil {
		return false
	}
	if o.ParentFrame != 0 && o.doc != nil && o.doc.Frame < o.ParentFrame {
		return false
	}
	return true
}

// WorldMatrix returns the world transform at the document's current frame.
func (o *Object) WorldMatrix() mgl32.Mat4 {
	local := o.LocalMatrix()
	if !o.ParentActive() {
		return local
	}
	return o.Parent.WorldMatrix().Mul4(o.ParentInverse).Mul4(local)
}

// WorldPosition returns the translation part of WorldMatrix.
func (o *Object) WorldPosition() mgl32.Vec3 {
	return o.WorldMatrix().Col(3).Vec3()
}

// Root walks the parent links to the top of the object's tree, ignoring
// frame gating.
func (o *Object) Root() *Object {
	r := o
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Track returns the track for the channel, creating it on first use.
func (o *Object) Track(ch Channel) *Track {
	for _, t := range o.Tracks {
		if t.Channel == ch {
			return t
		}
	}
	t := &Track{Channel: ch}
	o.Tracks = append(o.Tracks, t)
	return t
}

// Keyframe records the channel's current value at the given frame.
func (o *Object) Keyframe(ch Channel, frame int) {
	switch ch {
	case ChannelLocation:
		o.Track(ch).Insert(frame, o.Position)
	case ChannelScale:
		o.Track(ch).Insert(frame, o.Scale)
	}
}
