package scenedoc

import "github.com/go-gl/mathgl/mgl32"

// Compose builds a local transform matrix in translate, rotate, scale order.
func Compose(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Decompose splits a transform matrix back into position, rotation, and
// scale. Shear and negative scale are not representable; inputs are expected
// to come from Compose chains.
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	pos = m.Col(3).Vec3()
	sx, sy, sz := mgl32.Extract3DScale(m)
	scale = mgl32.Vec3{sx, sy, sz}
	r := mgl32.Ident4()
	for c := 0; c < 3; c++ {
		if scale[c] == 0 {
			continue
		}
		r.SetCol(c, m.Col(c).Vec3().Mul(1/scale[c]).Vec4(0))
	}
	rot = mgl32.Mat4ToQuat(r).Normalize()
	return pos, rot, scale
}

// EulerDegToQuat converts XYZ euler angles in degrees to a quaternion. The
// angles compose the way modeling hosts read an XYZ euler: X is applied
// first, then Y, then Z, all about the fixed world axes.
func EulerDegToQuat(xDeg, yDeg, zDeg float32) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(xDeg), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(yDeg), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(zDeg), mgl32.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx).Normalize()
}
