package renderer

import (
	"errors"
	com "gfx_examples/common"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

// scriptedEvents returns one batch of events per poll or wait, nothing once the script ran out.
type scriptedEvents struct {
	batches [][]com.Event
	polls   int
	waits   int
}

func (s *scriptedEvents) next() []com.Event {
	if len(s.batches) == 0 {
		return nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b
}

func (s *scriptedEvents) PollEvents() []com.Event {
	s.polls++
	return s.next()
}

func (s *scriptedEvents) WaitEvents() []com.Event {
	s.waits++
	return s.next()
}

var closeEvent = com.Event{Type: com.EventClose}

func countingFrame(n *int) FrameFunc {
	return func() error {
		*n++
		return nil
	}
}

func TestRunCloseBeforeFirstFrame(t *testing.T) {
	src := &scriptedEvents{batches: [][]com.Event{{closeEvent}}}
	drawn := 0
	frames, err := Run(src, countingFrame(&drawn))
	require.NoError(t, err)
	assert.Equal(t, 0, frames)
	assert.Equal(t, 0, drawn)
	assert.Equal(t, 1, src.polls)
}

func TestRunCloseOnLaterPoll(t *testing.T) {
	for _, n := range []int{2, 3, 10} {
		batches := make([][]com.Event, n)
		batches[n-1] = []com.Event{closeEvent}
		src := &scriptedEvents{batches: batches}
		drawn := 0
		frames, err := Run(src, countingFrame(&drawn))
		require.NoError(t, err)
		assert.Equal(t, n-1, frames, "close on poll %d", n)
		assert.Equal(t, n-1, drawn)
		assert.Equal(t, n, src.polls)
	}
}

func TestRunEscapeCloses(t *testing.T) {
	src := &scriptedEvents{batches: [][]com.Event{
		{{Type: com.EventKeyDown, Key: sdl.K_a}},
		{{Type: com.EventKeyDown, Key: com.KeyEscape}},
	}}
	drawn := 0
	frames, err := Run(src, countingFrame(&drawn))
	require.NoError(t, err)
	assert.Equal(t, 1, frames)
}

func TestRunCloseAmongOtherEvents(t *testing.T) {
	src := &scriptedEvents{batches: [][]com.Event{
		{closeEvent, {Type: com.EventKeyDown, Key: sdl.K_SPACE}},
	}}
	frames, err := Run(src, func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 0, frames)
}

func TestRunFrameErrorStops(t *testing.T) {
	errLost := errors.New("device lost")
	src := &scriptedEvents{}
	calls := 0
	frames, err := Run(src, func() error {
		calls++
		if calls == 3 {
			return errLost
		}
		return nil
	})
	require.ErrorIs(t, err, errLost)
	assert.Equal(t, 2, frames)
	assert.Equal(t, 3, calls)
}

func TestRunSkipsFramesWhileMinimized(t *testing.T) {
	src := &scriptedEvents{batches: [][]com.Event{
		nil,
		{{Type: com.EventMinimized}},
		{{Type: com.EventKeyDown, Key: sdl.K_a}},
		{{Type: com.EventRestored}},
		nil,
		{closeEvent},
	}}
	drawn := 0
	frames, err := Run(src, countingFrame(&drawn))
	require.NoError(t, err)
	// drawn on the first poll, after the restore and on the poll before the close
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3, drawn)
	assert.Equal(t, 2, src.waits, "minimized windows wait instead of polling")
	assert.Equal(t, 4, src.polls)
}

func TestRunCloseWhileMinimized(t *testing.T) {
	src := &scriptedEvents{batches: [][]com.Event{
		{{Type: com.EventMinimized}},
		{closeEvent},
	}}
	frames, err := Run(src, func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 0, frames)
	assert.Equal(t, 1, src.waits)
}

func TestLoopStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "closing", Closing.String())
	assert.Equal(t, "LoopState(7)", LoopState(7).String())
}
