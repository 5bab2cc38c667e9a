// Package display shows frames in an OpenCV HighGUI window and turns mouse
// and keyboard input into events.
package display

import (
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"clickcounter/internal/dto"
	"clickcounter/internal/logger"
)

// Title is the default window title, with the key legend.
const Title = "Click Counter (Q/Esc quit • R reset • U undo • S save)"

const (
	eventLeftButtonDown = 1 // cv::EVENT_LBUTTONDOWN
	noKey               = -1
)

// Window is a HighGUI window. HighGUI is not thread-safe: create, use and
// close a Window from the same goroutine.
type Window struct {
	window  *gocv.Window
	logger  *logger.Logger
	mu      sync.Mutex
	pending []dto.Event
	closed  bool
}

// NewWindow opens a window with the given title.
func NewWindow(title string, logger *logger.Logger) *Window {
	w := &Window{
		window: gocv.NewWindow(title),
		logger: logger,
	}
	w.window.SetMouseHandler(w.onMouse, nil)
	return w
}

// onMouse runs inside WaitKey whenever HighGUI dispatches a mouse event.
func (w *Window) onMouse(event int, x int, y int, flags int, userdata interface{}) {
	if event != eventLeftButtonDown {
		return
	}
	w.push(dto.Click(x, y))
}

// ShowFrame displays frame in the window.
func (w *Window) ShowFrame(frame image.Image) error {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	w.window.IMShow(mat)
	return nil
}

// PollEvent pumps the window for up to timeout and returns the oldest
// pending event. Clicks are delivered in the order they happened; a key
// pressed during the same wait follows them.
func (w *Window) PollEvent(timeout time.Duration) (dto.Event, bool) {
	if ev, ok := w.pop(); ok {
		return ev, true
	}

	key := w.window.WaitKey(waitMillis(timeout))
	if key != noKey {
		w.push(dto.Key(key & 0xFF))
	}
	if !w.closed && w.window.GetWindowProperty(gocv.WindowPropertyAutosize) < 0 {
		w.logger.Info("Window closed")
		w.closed = true
		w.push(dto.Close())
	}

	return w.pop()
}

// Wait keeps the window responsive for d. Keys pressed meanwhile are
// dropped; clicks stay queued.
func (w *Window) Wait(d time.Duration) {
	w.window.WaitKey(waitMillis(d))
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

func (w *Window) push(ev dto.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, ev)
}

func (w *Window) pop() (dto.Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return dto.Event{}, false
	}
	ev := w.pending[0]
	w.pending = w.pending[1:]
	return ev, true
}

// waitMillis converts d for WaitKey, where 0 would block forever.
func waitMillis(d time.Duration) int {
	ms := int(d / time.Millisecond)
	if ms < 1 {
		return 1
	}
	return ms
}
