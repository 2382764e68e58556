package renderer

import (
	"errors"
	"fmt"
)

var (
	ErrNoPipeline  = errors.New("draw without pipeline")
	ErrNoResources = errors.New("draw without resource set")
	ErrNoIndices   = errors.New("indexed draw from vertex buffer without indices")
)

type clearColorCmd struct {
	target RenderTarget
	color  [4]float32
}

type clearDepthCmd struct {
	target DepthTarget
	depth  float32
}

type drawCmd struct {
	slice     Slice
	pipeline  *PipelineState
	resources *ResourceSet
}

// Encoder records the commands of a frame. Nothing touches the GPU until the encoder is submitted.
type Encoder struct {
	cmds []any
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Reset drops all recorded commands so the encoder can record the next frame.
func (e *Encoder) Reset() {
	e.cmds = e.cmds[:0]
}

func (e *Encoder) Clear(target RenderTarget, color [4]float32) {
	e.cmds = append(e.cmds, clearColorCmd{target: target, color: color})
}

func (e *Encoder) ClearDepth(target DepthTarget, depth float32) {
	e.cmds = append(e.cmds, clearDepthCmd{target: target, depth: depth})
}

func (e *Encoder) Draw(slice Slice, pso *PipelineState, rs *ResourceSet) {
	e.cmds = append(e.cmds, drawCmd{slice: slice, pipeline: pso, resources: rs})
}

// frameStep is either a draw or a clear in the middle of the render pass.
type frameStep struct {
	draw       *drawCmd
	clearColor *[4]float32
	clearDepth *float32
}

// framePlan is the recorded frame as one render pass. Clears before the first draw become the pass's clear values.
type framePlan struct {
	clearColor [4]float32
	clearDepth float32
	steps      []frameStep
}

// plan validates the recorded commands against the frame's color and depth target.
func (e *Encoder) plan(color RenderTarget, depth DepthTarget) (framePlan, error) {
	plan := framePlan{clearColor: [4]float32{0, 0, 0, 1}, clearDepth: 1.0}
	drawn := false
	for i, cmd := range e.cmds {
		switch cmd := cmd.(type) {
		case clearColorCmd:
			if cmd.target.id == 0 || cmd.target != color {
				return framePlan{}, fmt.Errorf("command %d clears color: %w", i, ErrUnknownTarget)
			}
			if !drawn {
				plan.clearColor = cmd.color
				continue
			}
			c := cmd.color
			plan.steps = append(plan.steps, frameStep{clearColor: &c})
		case clearDepthCmd:
			if cmd.target.id == 0 || cmd.target != depth {
				return framePlan{}, fmt.Errorf("command %d clears depth: %w", i, ErrUnknownTarget)
			}
			if !drawn {
				plan.clearDepth = cmd.depth
				continue
			}
			d := cmd.depth
			plan.steps = append(plan.steps, frameStep{clearDepth: &d})
		case drawCmd:
			if cmd.pipeline == nil {
				return framePlan{}, fmt.Errorf("command %d: %w", i, ErrNoPipeline)
			}
			if cmd.resources == nil || cmd.resources.Data.VertexBuffer == nil {
				return framePlan{}, fmt.Errorf("command %d: %w", i, ErrNoResources)
			}
			if cmd.slice.Indexed && cmd.resources.Data.VertexBuffer.indices == nil {
				return framePlan{}, fmt.Errorf("command %d: %w", i, ErrNoIndices)
			}
			if cmd.slice.Count() == 0 {
				continue
			}
			drawn = true
			plan.steps = append(plan.steps, frameStep{draw: &cmd})
		}
	}
	return plan, nil
}
