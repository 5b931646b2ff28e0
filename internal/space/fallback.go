package space

import (
	"math/rand/v2"
	"strings"
	"time"
)

// OrbitPeriod is the approximate time the ISS takes to circle the Earth
const OrbitPeriod = 90 * time.Minute

const (
	FallbackRosterMessage = "error - using fallback data"
	SimulatedMessage      = "success (simulated)"
	cachedSuffix          = " (cached)"
	simulatedAltitudeKm   = 408
	simulatedVelocityKmh  = 27600
	simulatedFootprintKm  = 4500
	visibilityDaylight    = "daylight"
	visibilityEclipsed    = "eclipsed"
)

var fallbackCrew = []Astronaut{
	{Name: "Oleg Kononenko", Craft: "ISS"},
	{Name: "Nikolai Chub", Craft: "ISS"},
	{Name: "Tracy Caldwell Dyson", Craft: "ISS"},
	{Name: "Matthew Dominick", Craft: "ISS"},
	{Name: "Michael Barratt", Craft: "ISS"},
	{Name: "Jeanette Epps", Craft: "ISS"},
	{Name: "Alexander Grebenkin", Craft: "ISS"},
	{Name: "Butch Wilmore", Craft: "ISS"},
	{Name: "Sunita Williams", Craft: "ISS"},
	{Name: "Li Guangsu", Craft: "Tiangong"},
	{Name: "Li Cong", Craft: "Tiangong"},
	{Name: "Ye Guangfu", Craft: "Tiangong"},
}

// fallbackLocations are visited in order, one per tenth of an orbit
var fallbackLocations = []Coordinates{
	{Latitude: "28.4057", Longitude: "-80.6059"},  // Kennedy Space Center
	{Latitude: "51.5074", Longitude: "-0.1278"},   // London
	{Latitude: "35.6762", Longitude: "139.6503"},  // Tokyo
	{Latitude: "-33.8688", Longitude: "151.2093"}, // Sydney
	{Latitude: "40.7128", Longitude: "-74.0060"},  // New York
	{Latitude: "37.7749", Longitude: "-122.4194"}, // San Francisco
	{Latitude: "0.0", Longitude: "0.0"},           // Gulf of Guinea
	{Latitude: "19.4326", Longitude: "-99.1332"},  // Mexico City
	{Latitude: "-34.6037", Longitude: "-58.3816"}, // Buenos Aires
	{Latitude: "55.7558", Longitude: "37.6173"},   // Moscow
}

// FallbackRoster returns the last known crew. The slice is a copy.
func FallbackRoster(_ time.Time) Roster {
	people := make([]Astronaut, len(fallbackCrew))
	copy(people, fallbackCrew)
	return Roster{
		Number:  len(people),
		People:  people,
		Message: FallbackRosterMessage,
	}
}

// SimulatedCoordinates picks one of the fixed locations by splitting the
// orbital period into equal buckets.
func SimulatedCoordinates(now time.Time) Coordinates {
	period := OrbitPeriod.Milliseconds()
	bucket := period / int64(len(fallbackLocations))

	offset := now.UnixMilli() % period
	if offset < 0 {
		offset += period
	}
	return fallbackLocations[offset/bucket]
}

// FallbackPosition synthesizes an ISS position that keeps moving while the
// upstream is down.
func FallbackPosition(now time.Time) Position {
	altitude := float64(simulatedAltitudeKm)
	velocity := float64(simulatedVelocityKmh)
	footprint := float64(simulatedFootprintKm)
	visibility := visibilityEclipsed
	if rand.Float64() > 0.5 {
		visibility = visibilityDaylight
	}

	return Position{
		ISSPosition: SimulatedCoordinates(now),
		Message:     SimulatedMessage,
		Timestamp:   now.UnixMilli(),
		Altitude:    &altitude,
		Velocity:    &velocity,
		Visibility:  &visibility,
		Footprint:   &footprint,
	}
}

// StaleRoster tags a cached roster served after an upstream failure
func StaleRoster(r Roster) Roster {
	r.People = append([]Astronaut(nil), r.People...)
	r.Message = markCached(r.Message)
	return r
}

// StalePosition tags a cached position served after an upstream failure
func StalePosition(p Position) Position {
	p.Message = markCached(p.Message)
	return p
}

func markCached(message string) string {
	if strings.HasSuffix(message, cachedSuffix) {
		return message
	}
	return message + cachedSuffix
}
