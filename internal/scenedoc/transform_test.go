package scenedoc

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, tol float64) {
	t.Helper()
	assert.InDelta(t, float64(want.X()), float64(got.X()), tol)
	assert.InDelta(t, float64(want.Y()), float64(got.Y()), tol)
	assert.InDelta(t, float64(want.Z()), float64(got.Z()), tol)
}

func assertMat4Near(t *testing.T, want, got mgl32.Mat4, tol float64) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, float64(want[i]), float64(got[i]), tol, "element %d", i)
	}
}

func TestEulerDegToQuatAxisOrder(t *testing.T) {
	// X is applied first, then Z, about fixed world axes.
	q := EulerDegToQuat(90, 0, 90)
	assertVec3Near(t, mgl32.Vec3{0, 1, 0}, q.Rotate(mgl32.Vec3{1, 0, 0}), 1e-5)
	assertVec3Near(t, mgl32.Vec3{0, 0, 1}, q.Rotate(mgl32.Vec3{0, 1, 0}), 1e-5)

	// A lone axis behaves like the plain axis rotation.
	qx := EulerDegToQuat(90, 0, 0)
	assertVec3Near(t, mgl32.Vec3{0, 0, 1}, qx.Rotate(mgl32.Vec3{0, 1, 0}), 1e-5)
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	pos := mgl32.Vec3{1, -2, 3}
	rot := EulerDegToQuat(30, 40, 50)
	scale := mgl32.Vec3{2, 1, 0.5}

	m := Compose(pos, rot, scale)
	gotPos, gotRot, gotScale := Decompose(m)

	assertVec3Near(t, pos, gotPos, 1e-5)
	assertVec3Near(t, scale, gotScale, 1e-5)
	assertMat4Near(t, m, Compose(gotPos, gotRot, gotScale), 1e-4)
}

func TestWorldMatrixParentChain(t *testing.T) {
	d := New()
	root := d.NewObject("Root")
	root.Position = mgl32.Vec3{1, 0, 0}
	root.SetEuler(0, 0, 90)

	child := d.NewObject("Child")
	child.Position = mgl32.Vec3{0, 2, 0}
	require.NoError(t, d.SetParent(child, root))

	// Rz(90) carries the child's local +Y offset onto -X.
	assertVec3Near(t, mgl32.Vec3{-1, 0, 0}, child.WorldPosition(), 1e-5)

	grand := d.NewObject("Grand")
	grand.Position = mgl32.Vec3{0, 0, 1}
	require.NoError(t, d.SetParent(grand, child))
	assertVec3Near(t, mgl32.Vec3{-1, 0, 1}, grand.WorldPosition(), 1e-5)
}

func TestWorldMatrixWithScaledParent(t *testing.T) {
	d := New()
	root := d.NewObject("Root")
	root.Scale = mgl32.Vec3{2, 2, 2}
	child := d.NewObject("Child")
	child.Position = mgl32.Vec3{1, 0, 0}
	require.NoError(t, d.SetParent(child, root))
	assertVec3Near(t, mgl32.Vec3{2, 0, 0}, child.WorldPosition(), 1e-5)
}
