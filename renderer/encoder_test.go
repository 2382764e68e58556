package renderer

import (
	com "gfx_examples/common"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testColor = RenderTarget{id: mainTargetID}
	testDepth = DepthTarget{id: mainTargetID}
)

func testDrawArgs() (Slice, *PipelineState, *ResourceSet) {
	rs := &ResourceSet{Data: PipelineData{VertexBuffer: &VertexBuffer{Count: 3}}}
	return Slice{Start: 0, End: 3}, &PipelineState{}, rs
}

func TestPlanDefaults(t *testing.T) {
	plan, err := NewEncoder().plan(testColor, testDepth)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, plan.clearColor)
	assert.Equal(t, float32(1), plan.clearDepth)
	assert.Empty(t, plan.steps)
}

func TestPlanFoldsClearsBeforeFirstDraw(t *testing.T) {
	enc := NewEncoder()
	enc.Clear(testColor, [4]float32{1, 0, 0, 1})
	enc.Clear(testColor, [4]float32{0.3, 0.3, 0.3, 1})
	enc.ClearDepth(testDepth, 0.5)
	enc.Draw(testDrawArgs())

	plan, err := enc.plan(testColor, testDepth)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0.3, 0.3, 0.3, 1}, plan.clearColor, "last clear wins")
	assert.Equal(t, float32(0.5), plan.clearDepth)
	require.Len(t, plan.steps, 1)
	assert.NotNil(t, plan.steps[0].draw)
}

func TestPlanClearAfterDraw(t *testing.T) {
	enc := NewEncoder()
	enc.Draw(testDrawArgs())
	enc.Clear(testColor, [4]float32{0, 1, 0, 1})
	enc.ClearDepth(testDepth, 1)
	enc.Draw(testDrawArgs())

	plan, err := enc.plan(testColor, testDepth)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, plan.clearColor)
	require.Len(t, plan.steps, 4)
	require.NotNil(t, plan.steps[1].clearColor)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, *plan.steps[1].clearColor)
	require.NotNil(t, plan.steps[2].clearDepth)
	assert.Equal(t, float32(1), *plan.steps[2].clearDepth)
	assert.NotNil(t, plan.steps[0].draw)
	assert.NotNil(t, plan.steps[3].draw)
}

func TestPlanSkipsEmptySlices(t *testing.T) {
	enc := NewEncoder()
	_, pso, rs := testDrawArgs()
	enc.Draw(Slice{Start: 3, End: 3}, pso, rs)
	enc.Clear(testColor, [4]float32{0.1, 0.2, 0.3, 1})

	plan, err := enc.plan(testColor, testDepth)
	require.NoError(t, err)
	assert.Empty(t, plan.steps)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, plan.clearColor)
}

func TestPlanRejectsDrawWithoutPipeline(t *testing.T) {
	enc := NewEncoder()
	slice, _, rs := testDrawArgs()
	enc.Draw(slice, nil, rs)
	_, err := enc.plan(testColor, testDepth)
	assert.ErrorIs(t, err, ErrNoPipeline)

	enc.Reset()
	slice, pso, _ := testDrawArgs()
	enc.Draw(slice, pso, nil)
	_, err = enc.plan(testColor, testDepth)
	assert.ErrorIs(t, err, ErrNoResources)
}

func TestPlanRejectsIndexedDrawWithoutIndices(t *testing.T) {
	enc := NewEncoder()
	_, pso, rs := testDrawArgs()
	enc.Draw(Slice{Start: 0, End: 3, Indexed: true}, pso, rs)
	_, err := enc.plan(testColor, testDepth)
	assert.ErrorIs(t, err, ErrNoIndices)

	enc.Reset()
	indexed := &ResourceSet{Data: PipelineData{VertexBuffer: &VertexBuffer{Count: 3, indices: &com.Buffer{}}}}
	enc.Draw(Slice{Start: 0, End: 3, Indexed: true}, pso, indexed)
	plan, err := enc.plan(testColor, testDepth)
	require.NoError(t, err)
	assert.Len(t, plan.steps, 1)
}

func TestPlanRejectsUnknownTargets(t *testing.T) {
	enc := NewEncoder()
	enc.Clear(RenderTarget{}, [4]float32{})
	_, err := enc.plan(testColor, testDepth)
	assert.ErrorIs(t, err, ErrUnknownTarget)

	enc.Reset()
	enc.ClearDepth(DepthTarget{id: 42}, 1)
	_, err = enc.plan(testColor, testDepth)
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestEncoderReset(t *testing.T) {
	enc := NewEncoder()
	enc.Clear(testColor, [4]float32{1, 1, 1, 1})
	enc.Draw(testDrawArgs())
	assert.Len(t, enc.cmds, 2)

	enc.Reset()
	assert.Empty(t, enc.cmds)
	plan, err := enc.plan(testColor, testDepth)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, plan.clearColor)
	assert.Empty(t, plan.steps)
}
