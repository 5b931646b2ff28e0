package space

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeRosterFiltersInvalidEntries(t *testing.T) {
	raw := []byte(`{
		"message": "success",
		"people": [
			{"name": "Sunita Williams", "craft": "ISS"},
			{"name": 42, "craft": "ISS"},
			{"name": "Li Cong"},
			null,
			"Butch Wilmore",
			{"name": "Ye Guangfu", "craft": "Tiangong"}
		]
	}`)

	roster, err := NormalizeRoster(raw, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster.People) != 2 {
		t.Fatalf("expected 2 valid people, got %d: %+v", len(roster.People), roster.People)
	}
	if roster.Number != 2 {
		t.Errorf("expected number to equal kept entries, got %d", roster.Number)
	}
	if roster.People[1] != (Astronaut{Name: "Ye Guangfu", Craft: "Tiangong"}) {
		t.Errorf("unexpected entry %+v", roster.People[1])
	}
	if roster.Message != "success" {
		t.Errorf("unexpected message %q", roster.Message)
	}
}

func TestNormalizeRosterTrustsUpstreamNumber(t *testing.T) {
	raw := []byte(`{"number": 10, "people": [{"name": "A", "craft": "ISS"}]}`)

	roster, err := NormalizeRoster(raw, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roster.Number != 10 {
		t.Errorf("expected upstream number 10, got %d", roster.Number)
	}
	if roster.Message != "success" {
		t.Errorf("expected default message, got %q", roster.Message)
	}
}

func TestNormalizeRosterRejectsInvalidNumber(t *testing.T) {
	tests := []string{
		`{"number": 1e300, "people": [{"name": "A", "craft": "ISS"}]}`,
		`{"number": -4, "people": []}`,
		`{"number": 2.9, "people": [{"name": "A", "craft": "ISS"}]}`,
		`{"number": 4294967296, "people": [{"name": "A", "craft": "ISS"}]}`,
	}

	for _, raw := range tests {
		roster, err := NormalizeRoster([]byte(raw), time.Now())
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("%s: expected ErrMalformedPayload, got %v (number %d)", raw, err, roster.Number)
		}
	}

	roster, err := NormalizeRoster([]byte(`{"number": 7.0, "people": [{"name": "A", "craft": "ISS"}]}`), time.Now())
	if err != nil {
		t.Fatalf("unexpected error for whole number: %v", err)
	}
	if roster.Number != 7 {
		t.Errorf("expected number 7, got %d", roster.Number)
	}
}

func TestNormalizeRosterRejectsEmpty(t *testing.T) {
	_, err := NormalizeRoster([]byte(`{"people": [], "number": 0}`), time.Now())
	if !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("expected ErrEmptyRoster, got %v", err)
	}

	_, err = NormalizeRoster([]byte(`{}`), time.Now())
	if !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("expected ErrEmptyRoster for missing fields, got %v", err)
	}
}

func TestNormalizeRosterRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`[]`, `"people"`, `not json`, ``} {
		if _, err := NormalizeRoster([]byte(raw), time.Now()); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("%q: expected ErrMalformedPayload, got %v", raw, err)
		}
	}
}

func TestRosterCrafts(t *testing.T) {
	order, byCraft := FallbackRoster(time.Now()).Crafts()
	if len(order) != 2 || order[0] != "ISS" || order[1] != "Tiangong" {
		t.Fatalf("unexpected craft order %v", order)
	}
	if len(byCraft["ISS"]) != 9 || len(byCraft["Tiangong"]) != 3 {
		t.Errorf("unexpected grouping %v", byCraft)
	}
}
