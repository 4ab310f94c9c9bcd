package types

import "github.com/go-gl/mathgl/mgl32"

// Mat4 is a column-major 4x4 matrix.
type Mat4 mgl32.Mat4

// Create a 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Create a translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Create a scale matrix.
func Scale4(v Vec3) Mat4 {
	return Mat4(mgl32.Scale3D(v[0], v[1], v[2]))
}

// Create a matrix that rotates by angle radians around the Z axis.
func RotateZ4(angle float32) Mat4 {
	return Mat4(mgl32.HomogRotate3DZ(angle))
}

// Create a matrix from a column-major float slice. Missing entries are
// filled from the identity matrix.
func Mat4FromSlice(values []float32) Mat4 {
	m := Ident4()
	for index := 0; index < len(values) && index < 16; index++ {
		m[index] = values[index]
	}
	return m
}

// Multiply with another matrix.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Multiply with a column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Transform a point (w = 1).
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return m.Mul4x1(v.Vec4(1)).Vec3()
}

// Transform a direction (w = 0).
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// Get the inverse matrix. Singular matrices yield the zero matrix.
func (m Mat4) Inv() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Get a matrix row.
func (m Mat4) Row(row int) Vec4 {
	return Vec4(mgl32.Mat4(m).Row(row))
}

// Get a matrix column.
func (m Mat4) Col(col int) Vec4 {
	return Vec4(mgl32.Mat4(m).Col(col))
}

// Get the translation component.
func (m Mat4) Translation() Vec3 {
	return m.Col(3).Vec3()
}

// Get the matrix entries in column-major order.
func (m Mat4) Floats() []float32 {
	out := make([]float32, 16)
	copy(out, m[:])
	return out
}

// Check whether two matrices are equal within a small tolerance.
func (m Mat4) ApproxEqual(m2 Mat4) bool {
	return mgl32.Mat4(m).ApproxEqualThreshold(mgl32.Mat4(m2), floatCmpEpsilon*10)
}
