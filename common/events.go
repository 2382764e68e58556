package common

import "github.com/veandco/go-sdl2/sdl"

type EventType int

const (
	EventClose EventType = iota + 1
	EventKeyDown
	EventMinimized
	EventRestored
)

// KeyEscape is the key that closes the example windows, same as the window's close button.
const KeyEscape = sdl.K_ESCAPE

// Event is the reduced form of an SDL event that the frame loop reacts on.
type Event struct {
	Type EventType
	Key  sdl.Keycode
}

func (e Event) IsCloseRequest() bool {
	return e.Type == EventClose || (e.Type == EventKeyDown && e.Key == KeyEscape)
}
