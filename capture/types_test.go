package capture

import "testing"

func TestUpdateState(t *testing.T) {
	state := func(c, f, v byte) ChannelState {
		var s ChannelState
		s.Registers[0] = c
		s.Registers[1] = f
		s.Registers[2] = v
		return s
	}

	t.Run("duplicate updates collapse", func(t *testing.T) {
		q := NewSequence()
		q.UpdateState(state(1, 2, 3))
		q.Intervals[0].Duration = 2
		q.UpdateState(state(1, 2, 3))
		if q.Len() != 1 {
			t.Errorf("got %d intervals, want 1", q.Len())
		}
	})

	t.Run("zero-duration tail is replaced", func(t *testing.T) {
		q := NewSequence()
		q.UpdateState(state(1, 0, 0))
		q.UpdateState(state(2, 0, 0))
		if q.Len() != 1 {
			t.Fatalf("got %d intervals, want 1", q.Len())
		}
		if q.Intervals[0].State != state(2, 0, 0) {
			t.Errorf("tail state = %v, want replacement", q.Intervals[0].State.Registers)
		}
	})

	t.Run("replacement collapses into predecessor", func(t *testing.T) {
		q := NewSequence()
		q.UpdateState(state(1, 0, 0))
		q.Intervals[0].Duration = 3
		q.UpdateState(state(2, 0, 0))
		q.UpdateState(state(1, 0, 0))
		if q.Len() != 1 {
			t.Fatalf("got %d intervals, want 1", q.Len())
		}
		if q.Intervals[0].Duration != 3 {
			t.Errorf("duration = %d, want 3", q.Intervals[0].Duration)
		}
	})
}

func TestAddDuration(t *testing.T) {
	tpf := TicksPerFrame(60)

	t.Run("whole frames with remainder", func(t *testing.T) {
		q := NewSequence()
		q.UpdateState(FilledState(1))
		rem := q.AddDuration(10000, 0, tpf, 0)
		if rem != 10000 || q.Intervals[0].Duration != 0 {
			t.Errorf("got rem %d dur %d, want 10000, 0", rem, q.Intervals[0].Duration)
		}
		rem = q.AddDuration(13334, rem, tpf, 0)
		if rem != 23334-tpf || q.Intervals[0].Duration != 1 {
			t.Errorf("got rem %d dur %d, want %d, 1", rem, q.Intervals[0].Duration, 23334-tpf)
		}
	})

	t.Run("duration cap splits same state", func(t *testing.T) {
		q := NewSequence()
		q.UpdateState(FilledState(1))
		q.AddDuration(5*tpf, 0, tpf, 2)
		if q.Len() != 3 {
			t.Fatalf("got %d intervals, want 3", q.Len())
		}
		want := []int{2, 2, 1}
		for i, d := range want {
			if q.Intervals[i].Duration != d {
				t.Errorf("interval %d duration = %d, want %d", i, q.Intervals[i].Duration, d)
			}
			if q.Intervals[i].State != FilledState(1) {
				t.Errorf("interval %d state changed across split", i)
			}
		}
	})

	t.Run("empty sequence grows a zero state", func(t *testing.T) {
		q := NewSequence()
		q.AddDuration(tpf, 0, tpf, 0)
		if q.Len() != 1 || q.Intervals[0].State != FilledState(0) {
			t.Errorf("got %v, want one zero-state interval", q.Intervals)
		}
	})
}

func TestSequenceHash(t *testing.T) {
	build := func(vals ...byte) *Sequence {
		q := NewSequence()
		for _, v := range vals {
			q.UpdateState(FilledState(v))
			q.Intervals[len(q.Intervals)-1].Duration = int(v)
		}
		return q
	}
	a := build(1, 2, 3)
	b := build(1, 2, 3)
	c := build(1, 3, 2)
	if a.Hash() != b.Hash() {
		t.Errorf("equal sequences hash differently")
	}
	if a.Hash() == c.Hash() {
		t.Errorf("distinct sequences share a hash")
	}
}

func TestTicksPerFrame(t *testing.T) {
	if tpf := TicksPerFrame(60); tpf != 16667 {
		t.Errorf("60 Hz: got %d, want 16667", tpf)
	}
	if tpf := TicksPerFrame(50); tpf != 20000 {
		t.Errorf("50 Hz: got %d, want 20000", tpf)
	}
	if tpf := TicksPerFrame(0); tpf != 16667 {
		t.Errorf("unset Hz should fall back to 60")
	}
}
