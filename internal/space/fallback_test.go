package space

import (
	"testing"
	"time"
)

func TestFallbackRoster(t *testing.T) {
	roster := FallbackRoster(time.Now())
	if roster.Number != 12 || len(roster.People) != 12 {
		t.Fatalf("expected 12 people, got %d/%d", roster.Number, len(roster.People))
	}
	if roster.Message != FallbackRosterMessage {
		t.Errorf("unexpected message %q", roster.Message)
	}

	roster.People[0].Name = "mutated"
	if FallbackRoster(time.Now()).People[0].Name != "Oleg Kononenko" {
		t.Error("fallback roster must not share its backing array")
	}
}

func TestSimulatedCoordinatesBuckets(t *testing.T) {
	bucket := OrbitPeriod / 10
	base := time.UnixMilli(0).Add(3*bucket + time.Minute)

	first := SimulatedCoordinates(base)
	if first != fallbackLocations[3] {
		t.Fatalf("expected bucket 3, got %+v", first)
	}

	same := SimulatedCoordinates(base.Add(7 * time.Minute))
	if same != first {
		t.Errorf("expected same coordinates within a bucket, got %+v then %+v", first, same)
	}

	next := SimulatedCoordinates(base.Add(bucket))
	if next == first {
		t.Errorf("expected coordinates to change after crossing a bucket boundary")
	}
	if next != fallbackLocations[4] {
		t.Errorf("expected bucket 4, got %+v", next)
	}

	wrapped := SimulatedCoordinates(time.UnixMilli(0).Add(OrbitPeriod))
	if wrapped != fallbackLocations[0] {
		t.Errorf("expected a full orbit to wrap to the first location, got %+v", wrapped)
	}
}

func TestFallbackPosition(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	pos := FallbackPosition(now)

	if pos.Message != "success (simulated)" {
		t.Errorf("unexpected message %q", pos.Message)
	}
	if pos.Altitude == nil || *pos.Altitude != 408 {
		t.Errorf("expected altitude 408")
	}
	if pos.Velocity == nil || *pos.Velocity != 27600 {
		t.Errorf("expected velocity 27600")
	}
	if pos.Footprint == nil || *pos.Footprint != 4500 {
		t.Errorf("expected footprint 4500")
	}
	if pos.Visibility == nil || (*pos.Visibility != "daylight" && *pos.Visibility != "eclipsed") {
		t.Errorf("unexpected visibility %v", pos.Visibility)
	}
	if pos.Timestamp != now.UnixMilli() {
		t.Errorf("expected timestamp %d, got %d", now.UnixMilli(), pos.Timestamp)
	}
	if pos.ISSPosition != SimulatedCoordinates(now) {
		t.Errorf("position should follow the orbital bucket")
	}
}

func TestStaleMarksMessageOnce(t *testing.T) {
	roster := Roster{Number: 1, People: []Astronaut{{Name: "A", Craft: "ISS"}}, Message: "success"}

	stale := StaleRoster(roster)
	if stale.Message != "success (cached)" {
		t.Errorf("unexpected message %q", stale.Message)
	}
	if roster.Message != "success" {
		t.Errorf("original roster changed: %q", roster.Message)
	}
	if again := StaleRoster(stale); again.Message != "success (cached)" {
		t.Errorf("expected a single suffix, got %q", again.Message)
	}

	pos := StalePosition(Position{Message: "success"})
	if pos.Message != "success (cached)" {
		t.Errorf("unexpected position message %q", pos.Message)
	}
}
