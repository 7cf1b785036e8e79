package auth

import (
	"testing"
	"time"
)

func TestLockoutTracker_ThresholdTriggersLock(t *testing.T) {
	tracker := NewLockoutTracker(3, time.Hour)

	if tracker.IsLocked("alice") {
		t.Fatal("fresh account should not be locked")
	}

	if locked := tracker.RecordFailure("alice"); locked {
		t.Error("first failure should not lock")
	}
	if locked := tracker.RecordFailure("alice"); locked {
		t.Error("second failure should not lock")
	}
	if locked := tracker.RecordFailure("alice"); !locked {
		t.Error("third failure should lock (threshold=3)")
	}
	if !tracker.IsLocked("alice") {
		t.Error("account should report locked")
	}
}

func TestLockoutTracker_WindowExpiry(t *testing.T) {
	tracker := NewLockoutTracker(2, 40*time.Millisecond)

	tracker.RecordFailure("bob")
	tracker.RecordFailure("bob")
	if !tracker.IsLocked("bob") {
		t.Fatal("account should be locked at threshold")
	}

	time.Sleep(50 * time.Millisecond)

	if tracker.IsLocked("bob") {
		t.Error("lock should release once the window passes")
	}

	// Counting restarts after an expired lock
	if locked := tracker.RecordFailure("bob"); locked {
		t.Error("single failure after expiry should not lock again")
	}
}

func TestLockoutTracker_SuccessfulLoginClears(t *testing.T) {
	tracker := NewLockoutTracker(2, time.Hour)

	tracker.RecordFailure("carol")
	tracker.ClearFailures("carol")

	// After a clear the full threshold applies again
	if locked := tracker.RecordFailure("carol"); locked {
		t.Error("one failure after clear should not lock")
	}
	if locked := tracker.RecordFailure("carol"); !locked {
		t.Error("threshold failures after clear should lock")
	}

	tracker.ClearFailures("carol")
	if tracker.IsLocked("carol") {
		t.Error("clear should release an active lock")
	}
}

func TestLockoutTracker_RemainingLockoutTime(t *testing.T) {
	window := 200 * time.Millisecond
	tracker := NewLockoutTracker(1, window)

	if got := tracker.RemainingLockoutTime("dave"); got != 0 {
		t.Errorf("unlocked account: remaining = %v, want 0", got)
	}

	tracker.RecordFailure("dave")

	got := tracker.RemainingLockoutTime("dave")
	if got <= 0 || got > window {
		t.Errorf("remaining = %v, want in (0, %v]", got, window)
	}
}

func TestLockoutTracker_AccountsAreIndependent(t *testing.T) {
	tracker := NewLockoutTracker(2, time.Hour)

	tracker.RecordFailure("eve")
	tracker.RecordFailure("eve")
	tracker.RecordFailure("frank")

	if !tracker.IsLocked("eve") {
		t.Error("eve should be locked")
	}
	if tracker.IsLocked("frank") {
		t.Error("frank should not be locked by eve's failures")
	}
}

func TestLockoutTracker_FailuresWhileLockedDoNotExtend(t *testing.T) {
	window := 80 * time.Millisecond
	tracker := NewLockoutTracker(1, window)

	tracker.RecordFailure("grace")
	before := tracker.RemainingLockoutTime("grace")

	time.Sleep(20 * time.Millisecond)
	tracker.RecordFailure("grace")

	after := tracker.RemainingLockoutTime("grace")
	if after > before {
		t.Errorf("failure during lock extended the window: %v > %v", after, before)
	}
}
