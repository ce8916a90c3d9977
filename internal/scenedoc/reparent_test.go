package scenedoc

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReparentKeepWorldContinuity(t *testing.T) {
	d := New()
	carrier := d.NewObject("Carrier")
	carrier.Position = mgl32.Vec3{0, 0, 2}
	carrier.Keyframe(ChannelLocation, 1)
	carrier.Position = mgl32.Vec3{0, 0, 0.5}
	carrier.Keyframe(ChannelLocation, 60)
	carrier.Position = mgl32.Vec3{0, 0, 3}
	carrier.Keyframe(ChannelLocation, 100)

	crate := d.NewObject("Crate")
	crate.Position = mgl32.Vec3{1, 0, 0.25}

	d.ApplyFrame(60)
	before := crate.WorldPosition()

	require.NoError(t, d.ReparentKeepWorld(crate, carrier, 60))
	assert.Same(t, carrier, crate.Parent)
	assert.Equal(t, 60, crate.ParentFrame)

	// World position is unchanged at the handover frame.
	d.ApplyFrame(60)
	assertVec3Near(t, before, crate.WorldPosition(), 1e-5)

	// Before the handover the crate stays where its own pose puts it.
	d.ApplyFrame(30)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0.25}, crate.WorldPosition(), 1e-5)
	assert.False(t, crate.ParentActive())

	// Afterwards it rides the carrier: +2.5 on Z between frames 60 and 100.
	d.ApplyFrame(100)
	assertVec3Near(t, mgl32.Vec3{1, 0, 2.75}, crate.WorldPosition(), 1e-5)
	assert.True(t, crate.ParentActive())
}

func TestReparentKeepWorldWithRotatedParent(t *testing.T) {
	d := New()
	pivot := d.NewObject("Pivot")
	pivot.Position = mgl32.Vec3{2, 0, 0}
	pivot.SetEuler(0, 0, 90)
	pivot.Keyframe(ChannelLocation, 10)
	pivot.Position = mgl32.Vec3{2, 0, 5}
	pivot.Keyframe(ChannelLocation, 20)

	crate := d.NewObject("Crate")
	crate.Position = mgl32.Vec3{1, 1, 0}
	crate.SetEuler(0, 0, 45)

	d.ApplyFrame(10)
	before := crate.WorldMatrix()

	require.NoError(t, d.ReparentKeepWorld(crate, pivot, 10))
	d.ApplyFrame(10)
	assertMat4Near(t, before, crate.WorldMatrix(), 1e-4)

	// The pivot's own rotation cancels against the stored inverse, so the
	// crate translates rigidly with it.
	d.ApplyFrame(20)
	assertVec3Near(t, mgl32.Vec3{1, 1, 5}, crate.WorldPosition(), 1e-4)
}

func TestReparentKeepWorldFromPriorParent(t *testing.T) {
	d := New()
	a := d.NewObject("A")
	a.Position = mgl32.Vec3{5, 0, 0}
	child := d.NewObject("C")
	child.Position = mgl32.Vec3{0, 0, 1}
	require.NoError(t, d.SetParent(child, a))

	b := d.NewObject("B")
	b.Position = mgl32.Vec3{0, 3, 0}

	d.ApplyFrame(5)
	before := child.WorldPosition()
	assertVec3Near(t, mgl32.Vec3{5, 0, 1}, before, 1e-6)

	require.NoError(t, d.ReparentKeepWorld(child, b, 5))
	d.ApplyFrame(5)
	assertVec3Near(t, before, child.WorldPosition(), 1e-5)
	assert.Same(t, b, child.Parent)
}

func TestReparentKeepWorldRejectsCycles(t *testing.T) {
	d := New()
	root := d.NewObject("Root")
	child := d.NewObject("Child")
	require.NoError(t, d.SetParent(child, root))

	err := d.ReparentKeepWorld(root, child, 1)
	assert.ErrorContains(t, err, "cycle")
}
