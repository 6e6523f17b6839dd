package clock

import (
	"testing"
	"time"
)

func TestNow_ReturnsCurrentTime(t *testing.T) {
	before := time.Now()
	result := Now()
	after := time.Now()

	if result.Before(before) || result.After(after) {
		t.Errorf("Now() returned %v, expected between %v and %v", result, before, after)
	}
}

func TestMockClock_Now(t *testing.T) {
	mockTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(mockTime)

	result := mock.Now()

	if !result.Equal(mockTime) {
		t.Errorf("MockClock.Now() returned %v, expected exactly %v", result, mockTime)
	}
}

func TestMockClock_Advance(t *testing.T) {
	mockTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(mockTime)

	first := mock.Now()
	mock.Advance(time.Hour)
	second := mock.Now()

	expected := mockTime.Add(time.Hour)
	if !second.Equal(expected) {
		t.Errorf("After Advance, Now() = %v, expected %v", second, expected)
	}
	if !first.Equal(mockTime) {
		t.Errorf("Before Advance, Now() = %v, expected %v", first, mockTime)
	}
}

func TestMockClock_Set(t *testing.T) {
	mock := NewMockClock(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))

	newTime := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	mock.Set(newTime)

	result := mock.Now()
	if !result.Equal(newTime) {
		t.Errorf("After Set, Now() = %v, expected %v", result, newTime)
	}
}

func TestMockClock_Since(t *testing.T) {
	mockTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(mockTime)

	past := mockTime.Add(-30 * time.Minute)
	if got := mock.Since(past); got != 30*time.Minute {
		t.Errorf("Since() = %v, expected 30m", got)
	}
}

func TestMockClock_Until(t *testing.T) {
	mockTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(mockTime)

	future := mockTime.Add(2 * time.Hour)
	if got := mock.Until(future); got != 2*time.Hour {
		t.Errorf("Until() = %v, expected 2h", got)
	}
}
