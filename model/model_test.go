package model

import (
	"encoding/binary"
	"math"
	"testing"

	vm "gfx_examples/vector_math"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lin "github.com/xlab/linmath"
)

func toVec3(p [3]int8) lin.Vec3 {
	return lin.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
}

func TestCubeVertices(t *testing.T) {
	v := CubeVertices()
	require.Len(t, v, 24)
	for i, vert := range v {
		for _, c := range vert.Pos {
			assert.Contains(t, []int8{-1, 1}, c, "vertex %d position", i)
		}
		for _, c := range vert.TexCoord {
			assert.Contains(t, []int8{0, 1}, c, "vertex %d tex coord", i)
		}
	}
}

func TestCubeFacesArePlanar(t *testing.T) {
	v := CubeVertices()
	// top, bottom, right, left, front, back
	normals := []lin.Vec3{{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}
	for f, n := range normals {
		for i := 0; i < 4; i++ {
			assert.Equal(t, float32(1), vm.Dot(toVec3(v[f*4+i].Pos), n), "face %d vertex %d", f, i)
		}
	}
}

func TestCubeIndices(t *testing.T) {
	idx := CubeIndices()
	require.Len(t, idx, 36)
	assert.Equal(t, []uint8{0, 1, 2, 2, 3, 0}, idx[:6])
	assert.Equal(t, []uint8{20, 21, 22, 22, 23, 20}, idx[30:])

	used := map[uint8]bool{}
	for tri := 0; tri < 12; tri++ {
		a, b, c := idx[tri*3], idx[tri*3+1], idx[tri*3+2]
		assert.Less(t, a, uint8(24))
		assert.Less(t, b, uint8(24))
		assert.Less(t, c, uint8(24))
		assert.True(t, a != b && b != c && a != c, "triangle %d is degenerate", tri)
		used[a], used[b], used[c] = true, true, true
	}
	assert.Len(t, used, 24)
}

// Every triangle is counter-clockwise seen from outside, which is what back face culling with a counter-clockwise
// front face needs.
func TestCubeWinding(t *testing.T) {
	v := CubeVertices()
	idx := CubeIndices()
	for tri := 0; tri < 12; tri++ {
		a := toVec3(v[idx[tri*3]].Pos)
		b := toVec3(v[idx[tri*3+1]].Pos)
		c := toVec3(v[idx[tri*3+2]].Pos)
		n := vm.Cross(vm.Sub(b, a), vm.Sub(c, a))
		centroid := lin.Vec3{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
		assert.Greater(t, vm.Dot(n, centroid), float32(0), "triangle %d faces inwards", tri)
	}
}

func TestCubeMesh(t *testing.T) {
	m := NewCubeMesh()
	assert.True(t, m.Indexed())
	assert.Equal(t, uint32(24), m.Count)
	assert.Equal(t, int(m.Layout.Stride)*int(m.Count), m.VBufferSize())
	assert.Equal(t, []string{"a_Pos", "a_TexCoord"}, m.Layout.Names())

	// second vertex: pos (1, -1, 1), tex (1, 0)
	assert.Equal(t, []byte{0x01, 0xFF, 0x01, 0x01, 0x00}, m.Vertices[5:10])
}

func TestTriangle(t *testing.T) {
	v := TriangleVertices()
	require.Len(t, v, 3)
	assert.Equal(t, [3]float32{1, 0, 0}, v[0].Color)
	assert.Equal(t, [3]float32{0, 1, 0}, v[1].Color)
	assert.Equal(t, [3]float32{0, 0, 1}, v[2].Color)

	a, b, c := v[0].Pos, v[1].Pos, v[2].Pos
	area := ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])) / 2
	assert.InDelta(t, 0.5, area, 1e-6, "counter-clockwise with area 0.5")

	m := NewTriangleMesh()
	assert.False(t, m.Indexed())
	assert.Equal(t, 60, m.VBufferSize())
	assert.Equal(t, []string{"a_Pos", "a_Color"}, m.Layout.Names())
	assert.Equal(t, math.Float32bits(-0.5), binary.LittleEndian.Uint32(m.Vertices[0:4]))
}

func TestTransformUniform(t *testing.T) {
	var m lin.Mat4x4
	m.Identity()
	m[3][0], m[3][1], m[3][2] = 1, 2, 3

	u := NewTransformUniform(&m)
	b := u.Bytes()
	require.Len(t, b, TransformUniformSize)

	// column-major: translation is in the last column
	at := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])) }
	assert.Equal(t, float32(1), at(0))
	assert.Equal(t, float32(0), at(1))
	assert.Equal(t, float32(1), at(12))
	assert.Equal(t, float32(2), at(13))
	assert.Equal(t, float32(3), at(14))
	assert.Equal(t, float32(1), at(15))
}
