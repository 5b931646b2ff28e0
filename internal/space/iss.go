package space

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Coordinates are decimal degrees rendered as strings
type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Position is the normalized ISS location record. Telemetry fields are
// nil when the upstream did not provide them.
type Position struct {
	ISSPosition Coordinates `json:"iss_position"`
	Message     string      `json:"message"`
	Timestamp   int64       `json:"timestamp"`
	Altitude    *float64    `json:"altitude,omitempty"`
	Velocity    *float64    `json:"velocity,omitempty"`
	Visibility  *string     `json:"visibility,omitempty"`
	Footprint   *float64    `json:"footprint,omitempty"`
	SolarLat    *float64    `json:"solar_lat,omitempty"`
	SolarLon    *float64    `json:"solar_lon,omitempty"`
	Units       *string     `json:"units,omitempty"`
}

// NormalizePosition accepts the wheretheiss.at satellite shape
// ({"latitude": 51.2, "longitude": -0.1, ...}) and the open-notify iss-now
// shape ({"iss_position": {"latitude": "51.2", ...}}).
func NormalizePosition(raw []byte, fetchedAt time.Time) (Position, error) {
	if !gjson.ValidBytes(raw) {
		return Position{}, ErrMalformedPayload
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Position{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedPayload)
	}

	latField, lonField := root.Get("latitude"), root.Get("longitude")
	if !latField.Exists() && !lonField.Exists() {
		latField, lonField = root.Get("iss_position.latitude"), root.Get("iss_position.longitude")
	}

	lat, err := coordinate(latField)
	if err != nil {
		return Position{}, fmt.Errorf("%w: latitude %v", ErrMalformedPayload, err)
	}
	lon, err := coordinate(lonField)
	if err != nil {
		return Position{}, fmt.Errorf("%w: longitude %v", ErrMalformedPayload, err)
	}

	return Position{
		ISSPosition: Coordinates{Latitude: lat, Longitude: lon},
		Message:     "success",
		Timestamp:   fetchedAt.UnixMilli(),
		Altitude:    optionalNumber(root.Get("altitude")),
		Velocity:    optionalNumber(root.Get("velocity")),
		Visibility:  optionalString(root.Get("visibility")),
		Footprint:   optionalNumber(root.Get("footprint")),
		SolarLat:    optionalNumber(root.Get("solar_lat")),
		SolarLon:    optionalNumber(root.Get("solar_lon")),
		Units:       optionalString(root.Get("units")),
	}, nil
}

// coordinate coerces a number or numeric string into its shortest decimal form
func coordinate(v gjson.Result) (string, error) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return "", fmt.Errorf("not numeric: %q", v.Str)
		}
		f = parsed
	default:
		return "", fmt.Errorf("missing")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("not finite")
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func optionalNumber(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func optionalString(v gjson.Result) *string {
	if v.Type != gjson.String {
		return nil
	}
	s := v.Str
	return &s
}
