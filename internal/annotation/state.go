package annotation

import (
	"iter"
	"slices"

	"clickcounter/internal/model"
)

// State holds the ordered marks of one session.
// The zero value is an empty state ready to use.
type State struct {
	marks []model.Mark
}

// New creates an empty State.
func New() *State {
	return &State{}
}

// Add appends a mark at (x, y). Coordinates are not bounds-checked.
func (s *State) Add(x, y int) {
	s.marks = append(s.marks, model.Mark{X: x, Y: y})
}

// Undo removes the most recent mark and reports whether one was removed.
func (s *State) Undo() bool {
	if len(s.marks) == 0 {
		return false
	}
	s.marks = s.marks[:len(s.marks)-1]
	return true
}

// Reset removes all marks.
func (s *State) Reset() {
	s.marks = nil
}

// Count returns the number of marks.
func (s *State) Count() int {
	return len(s.marks)
}

// Marks yields the marks in insertion order. The sequence can be ranged over
// any number of times; each pass reflects the state at the time it starts.
func (s *State) Marks() iter.Seq[model.Mark] {
	return func(yield func(model.Mark) bool) {
		for _, m := range s.marks {
			if !yield(m) {
				return
			}
		}
	}
}

// Last returns the most recent mark, if any.
func (s *State) Last() (model.Mark, bool) {
	if len(s.marks) == 0 {
		return model.Mark{}, false
	}
	return s.marks[len(s.marks)-1], true
}

// Snapshot returns a copy of the marks in insertion order.
func (s *State) Snapshot() []model.Mark {
	return slices.Clone(s.marks)
}
