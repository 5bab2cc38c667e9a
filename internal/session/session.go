// Package session runs one annotation session: it turns input events into
// changes of the mark list, re-renders after every change and exports on
// request.
package session

import (
	"context"
	"image"
	"iter"
	"path/filepath"
	"time"

	"clickcounter/internal/annotation"
	"clickcounter/internal/dto"
	"clickcounter/internal/logger"
	"clickcounter/internal/model"
	"clickcounter/internal/render"
)

// Renderer produces frames from the base image and the marks.
type Renderer interface {
	Render(base image.Image, marks iter.Seq[model.Mark], count int) render.Frame
	Toast(frame image.Image, message string) render.Frame
}

// Display shows frames and delivers input.
type Display interface {
	ShowFrame(frame image.Image) error
	// PollEvent waits up to timeout for the next input event.
	PollEvent(timeout time.Duration) (dto.Event, bool)
	// Wait keeps the current frame on screen for d.
	Wait(d time.Duration)
}

// Saver persists a frame and returns where it was written.
type Saver interface {
	Save(frame image.Image, sourcePath string, count int) (string, error)
}

// Base is the read-only image being annotated and the path it came from.
type Base struct {
	Path  string
	Image image.Image
}

// Options holds the session timings.
type Options struct {
	PollInterval  time.Duration
	ToastDuration time.Duration
}

// DefaultOptions returns a 20ms poll interval and a 500ms save confirmation.
func DefaultOptions() Options {
	return Options{
		PollInterval:  20 * time.Millisecond,
		ToastDuration: 500 * time.Millisecond,
	}
}

// Session owns the mark list for one run. It is not safe for concurrent use;
// all calls are expected from the single input loop.
type Session struct {
	opts     Options
	base     Base
	state    *annotation.State
	renderer Renderer
	display  Display
	saver    Saver
	logger   *logger.Logger
	frame    render.Frame
}

// New creates a session with an empty mark list. The initial frame is the
// base image with a zero count.
func New(base Base, renderer Renderer, display Display, saver Saver, logger *logger.Logger, opts Options) *Session {
	s := &Session{
		opts:     opts,
		base:     base,
		state:    annotation.New(),
		renderer: renderer,
		display:  display,
		saver:    saver,
		logger:   logger,
	}
	s.frame = s.render()
	return s
}

// State returns the session's marks.
func (s *Session) State() *annotation.State {
	return s.state
}

// Frame returns the most recently rendered frame.
func (s *Session) Frame() render.Frame {
	return s.frame
}

// Run shows the initial frame and dispatches input until a quit command or
// until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.show(s.frame)
	s.logger.Info("Session started on %s", s.base.Path)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, ok := s.display.PollEvent(s.opts.PollInterval)
		if !ok {
			continue
		}

		// Save failures are reported inside Handle; the session continues.
		if cmd, _ := s.Handle(ev); cmd == CommandQuit {
			s.logger.Info("Session ended with %d marks", s.state.Count())
			return nil
		}
	}
}

// Handle applies a single event and returns the command it mapped to.
// The only error it returns is a failed save, which leaves the marks as they
// were.
func (s *Session) Handle(ev dto.Event) (Command, error) {
	cmd := CommandNone
	switch ev.Kind {
	case dto.EventClick:
		cmd = CommandClick
	case dto.EventKey:
		cmd = CommandForKey(ev.Key)
	case dto.EventClose:
		cmd = CommandQuit
	}

	switch cmd {
	case CommandClick:
		s.state.Add(ev.X, ev.Y)
		s.redraw()
	case CommandReset:
		s.state.Reset()
		s.redraw()
	case CommandUndo:
		s.state.Undo()
		s.redraw()
	case CommandSave:
		return cmd, s.save()
	}
	return cmd, nil
}

func (s *Session) save() error {
	s.redraw()

	path, err := s.saver.Save(s.frame, s.base.Path, s.state.Count())
	if err != nil {
		s.logger.Warning("Save failed: %v", err)
		s.flash("Save failed")
		return err
	}

	s.flash("Saved: " + filepath.Base(path))
	return nil
}

// flash shows message over the current frame for ToastDuration, then puts
// the plain frame back.
func (s *Session) flash(message string) {
	s.show(s.renderer.Toast(s.frame, message))
	s.display.Wait(s.opts.ToastDuration)
	s.show(s.frame)
}

func (s *Session) render() render.Frame {
	return s.renderer.Render(s.base.Image, s.state.Marks(), s.state.Count())
}

func (s *Session) redraw() {
	s.frame = s.render()
	s.show(s.frame)
}

func (s *Session) show(frame image.Image) {
	if err := s.display.ShowFrame(frame); err != nil {
		s.logger.Warning("Failed to show frame: %v", err)
	}
}
