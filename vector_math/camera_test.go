package vector_math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	lin "github.com/xlab/linmath"
)

const eps = 1e-4

func cubeCamera() *Camera {
	cam := NewCamera(lin.Vec3{1.5, -5, 3}, lin.Vec3{0, 0, 0}, lin.Vec3{0, 0, 1})
	cam.Aspect = 640.0 / 480.0
	return cam
}

func scale(v lin.Vec3, f float32) lin.Vec3 {
	return lin.Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func TestVulkanClip(t *testing.T) {
	c := Apply(&VulkanClip, lin.Vec3{1, 2, 0.5})
	assert.InDeltaSlice(t, []float32{1, -2, 0.75, 1}, c[:], eps)

	// GL depth range [-1, 1] ends up as [0, 1]
	assert.InDelta(t, 0, Project(&VulkanClip, lin.Vec3{0, 0, -1})[2], eps)
	assert.InDelta(t, 1, Project(&VulkanClip, lin.Vec3{0, 0, 1})[2], eps)
}

func TestViewMovesEyeToOrigin(t *testing.T) {
	cam := cubeCamera()
	view := cam.View()

	e := Apply(&view, cam.Eye)
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, e[:], eps)

	// camera looks down -z in view space
	d := Length(cam.Eye)
	o := Apply(&view, cam.Target)
	assert.InDeltaSlice(t, []float32{0, 0, -d, 1}, o[:], eps)
}

func TestTransformCentersTarget(t *testing.T) {
	cam := cubeCamera()
	m := cam.Transform()

	ndc := Project(&m, lin.Vec3{0, 0, 0})
	assert.InDelta(t, 0, ndc[0], eps)
	assert.InDelta(t, 0, ndc[1], eps)
	assert.Greater(t, ndc[2], float32(0))
	assert.Less(t, ndc[2], float32(1))
}

func TestTransformDepthOrder(t *testing.T) {
	cam := cubeCamera()
	m := cam.Transform()

	origin := Project(&m, lin.Vec3{0, 0, 0})[2]
	closer := Project(&m, scale(cam.Eye, 0.5))[2]
	further := Project(&m, scale(cam.Eye, -0.3))[2]
	assert.Less(t, closer, origin)
	assert.Greater(t, further, origin)

	// the near and far planes map to the ends of the depth range
	d := Length(cam.Eye)
	near := Project(&m, scale(cam.Eye, 1-cam.Near/d))[2]
	far := Project(&m, scale(cam.Eye, 1-cam.Far/d))[2]
	assert.InDelta(t, 0, near, eps)
	assert.InDelta(t, 1, far, eps)
}

func TestTransformOrientation(t *testing.T) {
	cam := cubeCamera()
	m := cam.Transform()

	// world up is screen up, which is -y in Vulkan
	up := Project(&m, lin.Vec3{0, 0, 0.5})
	assert.Less(t, up[1], float32(0))

	// looking from (1.5, -5, 3) world +x points to the right
	right := Project(&m, lin.Vec3{0.5, 0, 0})
	assert.Greater(t, right[0], float32(0))
}

func TestAspectStretchesHorizontally(t *testing.T) {
	cam := cubeCamera()
	cam.Aspect = 1
	square := cam.Transform()
	cam.Aspect = 2
	wide := cam.Transform()

	p := lin.Vec3{0.5, 0, 0}
	assert.InDelta(t, Project(&square, p)[0]/2, Project(&wide, p)[0], eps)
}

func TestVec3Helpers(t *testing.T) {
	x := lin.Vec3{1, 0, 0}
	y := lin.Vec3{0, 1, 0}
	assert.Equal(t, lin.Vec3{0, 0, 1}, Cross(x, y))
	assert.Equal(t, lin.Vec3{1, -1, 0}, Sub(x, y))
	assert.Equal(t, float32(0), Dot(x, y))
	assert.InDelta(t, 5, Length(lin.Vec3{3, 4, 0}), eps)
}

func TestColumns(t *testing.T) {
	var m lin.Mat4x4
	m.Identity()
	m[3][0] = 7
	cols := Columns(&m)
	assert.Equal(t, float32(1), cols[0])
	assert.Equal(t, float32(1), cols[5])
	assert.Equal(t, float32(7), cols[12])
	assert.InDelta(t, 3.14159/2, ToRad(90), eps)
}

func TestCameraValidate(t *testing.T) {
	cam := cubeCamera()
	assert.NoError(t, cam.Validate())
	assert.InDelta(t, 6.0208, cam.Distance(), eps)

	same := NewCamera(lin.Vec3{1, 1, 1}, lin.Vec3{1, 1, 1}, lin.Vec3{0, 0, 1})
	assert.Error(t, same.Validate())

	parallelUp := NewCamera(lin.Vec3{0, 0, 5}, lin.Vec3{0, 0, 0}, lin.Vec3{0, 0, 1})
	assert.Error(t, parallelUp.Validate())

	badClip := cubeCamera()
	badClip.Far = badClip.Near
	assert.Error(t, badClip.Validate())

	badAspect := cubeCamera()
	badAspect.Aspect = 0
	assert.Error(t, badAspect.Validate())
}
