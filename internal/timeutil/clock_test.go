package timeutil

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	before := time.Now()
	now := c.Now()
	if now.Before(before) {
		t.Errorf("Now() = %v before %v", now, before)
	}
	if c.Since(before) < 0 {
		t.Error("Since returned a negative duration")
	}
}

func TestMockClock(t *testing.T) {
	c := NewMockClock(epoch)
	if got := c.Now(); !got.Equal(epoch) {
		t.Errorf("Now() = %v, want %v", got, epoch)
	}
	c.Advance(90 * time.Second)
	if got := c.Since(epoch); got != 90*time.Second {
		t.Errorf("Since = %v, want 90s", got)
	}
	c.Set(epoch)
	if got := c.Since(epoch); got != 0 {
		t.Errorf("Since after Set = %v, want 0", got)
	}
}

func TestMockClock_Step(t *testing.T) {
	c := NewMockClock(epoch)
	c.Step(5 * time.Millisecond)
	start := c.Now()
	if got := c.Since(start); got != 5*time.Millisecond {
		t.Errorf("Since = %v, want 5ms", got)
	}
	if got := c.Now(); !got.Equal(epoch.Add(5 * time.Millisecond)) {
		t.Errorf("second Now() = %v", got)
	}
}
