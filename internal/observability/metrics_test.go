package observability

import (
	"testing"
	"time"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/sr/", "POST", 201, 20*time.Millisecond)
	m.RecordRequest("/api/sr/", "POST", 201, 40*time.Millisecond)
	m.RecordError("/api/sr/:id", "GET", "NOT_FOUND")
	m.RecordMirror(MirrorSucceeded)
	m.RecordMirror(MirrorFailed)
	m.RecordMirror(MirrorFailed)

	snap := m.Snapshot()

	if got := snap.Requests["/api/sr/|POST|201"]; got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	if got := snap.RequestLatencyAvg["/api/sr/|POST|201"]; got != "30ms" {
		t.Errorf("avg latency = %q, want 30ms", got)
	}
	if got := snap.Errors["/api/sr/:id|GET|NOT_FOUND"]; got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
	if snap.Mirror[MirrorSucceeded] != 1 || snap.Mirror[MirrorFailed] != 2 {
		t.Errorf("mirror = %v", snap.Mirror)
	}

	// Snapshot must be a copy.
	snap.Mirror[MirrorFailed] = 100
	if m.Snapshot().Mirror[MirrorFailed] != 2 {
		t.Error("snapshot aliases internal state")
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordMirror(MirrorFailed)
	if len(m.Snapshot().Requests) != 0 {
		t.Error("nil metrics should report nothing")
	}
}
