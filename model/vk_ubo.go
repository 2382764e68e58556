package model

import (
	"gfx_examples/common"
	vm "gfx_examples/vector_math"

	lin "github.com/xlab/linmath"
)

// TransformUniform is the u_Transform uniform: one column-major 4x4 matrix.
type TransformUniform struct {
	Transform [16]float32
}

const TransformUniformSize = 64

func NewTransformUniform(m *lin.Mat4x4) TransformUniform {
	return TransformUniform{Transform: vm.Columns(m)}
}

func (u *TransformUniform) Bytes() []byte {
	return common.RawBytes(u)
}
