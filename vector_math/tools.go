package vector_math

import lin "github.com/xlab/linmath"

// ToRad turns degree into radians
func ToRad(deg float32) float32 {
	return lin.DegreesToRadians(deg)
}

// Apply multiplies the column-major matrix m with the homogeneous point (p, 1).
func Apply(m *lin.Mat4x4, p lin.Vec3) lin.Vec4 {
	var r lin.Vec4
	r.Mat4x4MultVec4(m, lin.Vec4{p[0], p[1], p[2], 1})
	return r
}

// Project applies m to p and performs the perspective divide. For a full transform the result is in normalized
// device coordinates.
func Project(m *lin.Mat4x4, p lin.Vec3) lin.Vec3 {
	c := Apply(m, p)
	return lin.Vec3{c[0] / c[3], c[1] / c[3], c[2] / c[3]}
}

// Columns flattens m column by column, the order shaders expect for a mat4x4 uniform.
func Columns(m *lin.Mat4x4) [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		copy(out[col*4:], m[col][:])
	}
	return out
}
