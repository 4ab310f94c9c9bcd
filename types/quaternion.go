package types

import "github.com/go-gl/mathgl/mgl32"

// Quat is a rotation quaternion with vector part V and scalar part W.
type Quat struct {
	V Vec3
	W float32
}

func (q Quat) mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3(q.V)}
}

func fromMgl(q mgl32.Quat) Quat {
	return Quat{V: Vec3(q.V), W: q.W}
}

// QuatIdent returns the identity rotation.
func QuatIdent() Quat {
	return fromMgl(mgl32.QuatIdent())
}

// QuatFromAxisAngle returns a rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return fromMgl(mgl32.QuatRotate(angle, mgl32.Vec3(axis.Normalize())))
}

// QuatFromXYZW builds a quaternion from the (x, y, z, w) layout used by
// glTF and yaml scenes.
func QuatFromXYZW(xyzw [4]float32) Quat {
	return Quat{V: Vec3{xyzw[0], xyzw[1], xyzw[2]}, W: xyzw[3]}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return Vec3(q.mgl().Rotate(mgl32.Vec3(v)))
}

// Mul composes two rotations; q2 is applied first.
func (q Quat) Mul(q2 Quat) Quat {
	return fromMgl(q.mgl().Mul(q2.mgl()))
}

// Len returns the quaternion norm.
func (q Quat) Len() float32 {
	return q.mgl().Len()
}

// Normalize returns a unit quaternion. A zero quaternion normalizes to the
// identity.
func (q Quat) Normalize() Quat {
	if q.Len() == 0 {
		return QuatIdent()
	}
	return fromMgl(q.mgl().Normalize())
}

// Mat4 returns the homogeneous rotation matrix.
func (q Quat) Mat4() Mat4 {
	return Mat4(q.mgl().Mat4())
}

// TRS composes a transformation matrix as T * R * S.
func TRS(translation Vec3, rotation Quat, scale Vec3) Mat4 {
	return Translate4(translation).Mul4(rotation.Normalize().Mat4()).Mul4(Scale4(scale))
}
