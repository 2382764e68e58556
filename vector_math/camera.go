package vector_math

import (
	"errors"

	lin "github.com/xlab/linmath"
)

// VulkanClip converts GL style clip space (y up, depth in [-w, w]) to the Vulkan convention (y down, depth in
// [0, w]). Keeping the projection GL style keeps the counter-clockwise front faces of the mesh data valid.
var VulkanClip = lin.Mat4x4{
	{1, 0, 0, 0},
	{0, -1, 0, 0},
	{0, 0, 0.5, 0},
	{0, 0, 0.5, 1},
}

// Camera is a static look-at camera with a perspective projection.
type Camera struct {
	Eye    lin.Vec3
	Target lin.Vec3
	Up     lin.Vec3

	// Vertical field of view in degree
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
}

func NewCamera(eye, target, up lin.Vec3) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     up,
		Fov:    45,
		Aspect: 1,
		Near:   1,
		Far:    10,
	}
}

func (c *Camera) View() lin.Mat4x4 {
	var m lin.Mat4x4
	m.LookAt(&c.Eye, &c.Target, &c.Up)
	return m
}

func (c *Camera) Projection() lin.Mat4x4 {
	var m lin.Mat4x4
	m.Perspective(ToRad(c.Fov), c.Aspect, c.Near, c.Far)
	return m
}

// Transform is the complete world to Vulkan clip space matrix: clip correction * projection * view.
func (c *Camera) Transform() lin.Mat4x4 {
	view := c.View()
	proj := c.Projection()
	var pv, out lin.Mat4x4
	pv.Mult(&proj, &view)
	out.Mult(&VulkanClip, &pv)
	return out
}

// Distance from eye to target.
func (c *Camera) Distance() float32 {
	return Length(Sub(c.Target, c.Eye))
}

// Validate rejects cameras a look-at view can not be built for.
func (c *Camera) Validate() error {
	forward := Sub(c.Target, c.Eye)
	if Length(forward) == 0 {
		return errors.New("camera eye and target coincide")
	}
	if Length(Cross(forward, c.Up)) == 0 {
		return errors.New("camera up is parallel to the view direction")
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return errors.New("camera clip planes need 0 < near < far")
	}
	if c.Aspect <= 0 {
		return errors.New("camera aspect must be positive")
	}
	return nil
}
