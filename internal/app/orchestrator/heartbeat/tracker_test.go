package heartbeat

import (
	"testing"
	"time"
)

func testTracker(clock func() time.Time) *tracker {
	return &tracker{
		lastSeen:     make(map[string]time.Time),
		pollInterval: PollInterval,
		clock:        clock,
	}
}

func TestUnknownHostIsNotLive(t *testing.T) {
	tr := NewTracker()

	if tr.IsLive("Unknown.Assembly") {
		t.Error("expected unknown assembly to be reported as not live")
	}
	if _, ok := tr.LastHeartbeat("Unknown.Assembly"); ok {
		t.Error("expected no heartbeat record for unknown assembly")
	}
}

func TestTouchMakesHostLive(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	tr := testTracker(func() time.Time { return now })

	tr.Touch("Funcs.Alpha")
	if !tr.IsLive("Funcs.Alpha") {
		t.Error("expected assembly to be live right after touch")
	}

	last, ok := tr.LastHeartbeat("Funcs.Alpha")
	if !ok {
		t.Fatal("expected a heartbeat record after touch")
	}
	if !last.Equal(now) {
		t.Errorf("unexpected heartbeat time: %v", last)
	}
}

func TestLivenessExpiresAfterPollInterval(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	now := base
	tr := testTracker(func() time.Time { return now })

	tr.Touch("Funcs.Alpha")

	now = base.Add(PollInterval - time.Millisecond)
	if !tr.IsLive("Funcs.Alpha") {
		t.Error("expected assembly to be live just inside the poll interval")
	}

	now = base.Add(PollInterval)
	if tr.IsLive("Funcs.Alpha") {
		t.Error("expected assembly to be stale exactly at the poll interval")
	}

	now = base.Add(PollInterval + time.Millisecond)
	if tr.IsLive("Funcs.Alpha") {
		t.Error("expected assembly to be stale past the poll interval")
	}
}

func TestTouchRefreshesLiveness(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	now := base
	tr := testTracker(func() time.Time { return now })

	tr.Touch("Funcs.Alpha")

	now = base.Add(PollInterval + time.Second)
	if tr.IsLive("Funcs.Alpha") {
		t.Fatal("expected assembly to be stale before the refresh")
	}

	tr.Touch("Funcs.Alpha")
	if !tr.IsLive("Funcs.Alpha") {
		t.Error("expected assembly to be live again after the refresh")
	}
}

func TestHostsAreTrackedIndependently(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	now := base
	tr := testTracker(func() time.Time { return now })

	tr.Touch("Funcs.Alpha")
	now = base.Add(PollInterval / 2)
	tr.Touch("Funcs.Beta")

	now = base.Add(PollInterval + time.Second)
	if tr.IsLive("Funcs.Alpha") {
		t.Error("expected first assembly to be stale")
	}
	if !tr.IsLive("Funcs.Beta") {
		t.Error("expected second assembly to still be live")
	}
}
