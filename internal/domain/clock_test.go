package domain

import (
	"testing"
	"time"
)

// stepClock сдвигает время на step при каждом вызове Now.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		now:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		step: time.Second,
	}
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestSystemClockIsUTCMicroseconds(t *testing.T) {
	now := SystemClock{}.Now()

	if now.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", now.Location())
	}
	if now.Nanosecond()%int(time.Microsecond) != 0 {
		t.Errorf("expected microsecond precision, got %d ns", now.Nanosecond())
	}
}

func TestClockFunc(t *testing.T) {
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := ClockFunc(func() time.Time { return fixed })

	if !clock.Now().Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, clock.Now())
	}
}
