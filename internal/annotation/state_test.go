package annotation

import (
	"slices"
	"testing"

	"clickcounter/internal/model"
)

func TestState_AddPreservesClickOrder(t *testing.T) {
	clicks := []model.Mark{{X: 3, Y: 4}, {X: 10, Y: 10}, {X: 0, Y: 0}, {X: 99, Y: 1}}

	s := New()
	for _, c := range clicks {
		s.Add(c.X, c.Y)
	}

	if s.Count() != len(clicks) {
		t.Fatalf("Count() = %d, expected %d", s.Count(), len(clicks))
	}

	got := slices.Collect(s.Marks())
	if !slices.Equal(got, clicks) {
		t.Errorf("Marks() = %v, expected %v", got, clicks)
	}
}

func TestState_DuplicateClicksAreDistinct(t *testing.T) {
	s := New()
	s.Add(5, 5)
	s.Add(5, 5)
	s.Add(5, 5)

	if s.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", s.Count())
	}
}

func TestState_OutOfBoundsAccepted(t *testing.T) {
	s := New()
	s.Add(-20, 100000)

	m, ok := s.Last()
	if !ok {
		t.Fatal("Expected a mark")
	}
	if m != (model.Mark{X: -20, Y: 100000}) {
		t.Errorf("Last() = %v", m)
	}
}

func TestState_UndoInvertsAdd(t *testing.T) {
	tests := []struct {
		name  string
		prior []model.Mark
		add   model.Mark
	}{
		{"empty", nil, model.Mark{X: 1, Y: 2}},
		{"one", []model.Mark{{X: 7, Y: 7}}, model.Mark{X: 7, Y: 7}},
		{"many", []model.Mark{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, model.Mark{X: -4, Y: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, m := range tt.prior {
				s.Add(m.X, m.Y)
			}
			before := s.Snapshot()

			s.Add(tt.add.X, tt.add.Y)
			if !s.Undo() {
				t.Fatal("Undo() reported nothing removed")
			}

			if !slices.Equal(s.Snapshot(), before) {
				t.Errorf("state after add+undo = %v, expected %v", s.Snapshot(), before)
			}
		})
	}
}

func TestState_UndoOnEmptyIsNoop(t *testing.T) {
	s := New()

	if s.Undo() {
		t.Error("Undo() on empty state reported a removal")
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", s.Count())
	}
	if _, ok := s.Last(); ok {
		t.Error("Last() on empty state returned a mark")
	}
}

func TestState_ResetAlwaysEmpties(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100} {
		s := New()
		for i := 0; i < n; i++ {
			s.Add(i, i*2)
		}
		s.Reset()

		if s.Count() != 0 {
			t.Errorf("after %d adds, Reset() left Count() = %d", n, s.Count())
		}
		if got := slices.Collect(s.Marks()); len(got) != 0 {
			t.Errorf("after %d adds, Reset() left marks %v", n, got)
		}
	}
}

func TestState_MarksIsRestartable(t *testing.T) {
	s := New()
	s.Add(1, 1)
	s.Add(2, 2)

	seq := s.Marks()
	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if !slices.Equal(first, second) {
		t.Errorf("second pass %v differs from first %v", second, first)
	}
}

func TestState_MarksStopsEarly(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		s.Add(i, i)
	}

	seen := 0
	for range s.Marks() {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Errorf("seen = %d, expected 3", seen)
	}
}

func TestState_ScenarioClickUndoReset(t *testing.T) {
	s := New()
	s.Add(10, 10)
	s.Add(20, 20)
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, expected 2", s.Count())
	}

	s.Undo()
	if s.Count() != 1 {
		t.Fatalf("Count() = %d, expected 1", s.Count())
	}
	if m, _ := s.Last(); m != (model.Mark{X: 10, Y: 10}) {
		t.Errorf("remaining mark = %v, expected (10,10)", m)
	}

	s.Reset()
	if s.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", s.Count())
	}
}

func TestState_SnapshotIsCopy(t *testing.T) {
	s := New()
	s.Add(1, 1)

	snap := s.Snapshot()
	snap[0] = model.Mark{X: 9, Y: 9}

	if m, _ := s.Last(); m != (model.Mark{X: 1, Y: 1}) {
		t.Errorf("mutating snapshot changed state: %v", m)
	}
}
