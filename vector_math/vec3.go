package vector_math

import lin "github.com/xlab/linmath"

// Value style wrappers around the in-place pointer API of lin.Vec3.

func Sub(v, w lin.Vec3) lin.Vec3 {
	var r lin.Vec3
	r.Sub(&v, &w)
	return r
}

func Cross(v, w lin.Vec3) lin.Vec3 {
	var r lin.Vec3
	r.MultCross(&v, &w)
	return r
}

func Dot(v, w lin.Vec3) float32 {
	return lin.Vec3MultInner(&v, &w)
}

func Length(v lin.Vec3) float32 {
	return v.Len()
}
