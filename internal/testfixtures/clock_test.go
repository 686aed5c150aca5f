package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if clock.Now().Weekday() != time.Wednesday {
		t.Fatalf("expected reference time on a Wednesday, got %v", clock.Now().Weekday())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2025, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start)
	if got := clock.AdvanceDays(2); !got.Equal(time.Date(2025, time.March, 16, 9, 26, 0, 0, time.UTC)) {
		t.Fatalf("AdvanceDays returned %v", got)
	}
	if got := clock.DaysAgo(16); !got.Equal(time.Date(2025, time.February, 28, 9, 26, 0, 0, time.UTC)) {
		t.Fatalf("DaysAgo returned %v", got)
	}
}

func TestClockNowFunc(t *testing.T) {
	clock := NewClock(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	nowFn := clock.NowFunc()

	clock.Advance(time.Minute)
	if got := nowFn(); !got.Equal(clock.Now()) {
		t.Fatalf("expected updated time %v, got %v", clock.Now(), got)
	}

	var nilClock *Clock
	if nilClock.NowFunc() == nil {
		t.Fatal("nil clock must fall back to time.Now")
	}
}
