package renderer

import (
	"fmt"
	com "gfx_examples/common"
	"log"
	"time"
)

type LoopState int

const (
	Running LoopState = iota
	Closing
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case Closing:
		return "closing"
	default:
		return fmt.Sprintf("LoopState(%d)", int(s))
	}
}

// EventSource hands out window events. PollEvents returns what arrived since the last call without blocking,
// WaitEvents blocks until there is at least one event.
type EventSource interface {
	PollEvents() []com.Event
	WaitEvents() []com.Event
}

// FrameFunc renders one frame. An error ends the loop.
type FrameFunc func() error

// Run polls src and renders frames until a close request (window close or Escape) arrives. Events are drained
// before each frame, a close request among them ends the loop without drawing that frame. While the window is
// minimized nothing is drawn and Run sleeps on src until new events arrive. It returns the number of frames drawn
// and the error of the failed frame, if any.
func Run(src EventSource, frame FrameFunc) (int, error) {
	t0 := time.Now()
	frames := 0
	state := Running
	minimized := false
	defer func() {
		dt := time.Since(t0)
		log.Printf("Elapsed: %v, rough avg fps: %.1f fps", dt, float64(frames)/dt.Seconds())
	}()

	for state == Running {
		var events []com.Event
		if minimized {
			events = src.WaitEvents()
		} else {
			events = src.PollEvents()
		}
		for _, ev := range events {
			switch {
			case ev.IsCloseRequest():
				state = Closing
			case ev.Type == com.EventMinimized:
				minimized = true
			case ev.Type == com.EventRestored:
				minimized = false
			}
		}
		if state == Closing {
			break
		}
		if minimized {
			continue
		}
		if err := frame(); err != nil {
			return frames, fmt.Errorf("frame %d: %w", frames, err)
		}
		frames++
	}
	return frames, nil
}
