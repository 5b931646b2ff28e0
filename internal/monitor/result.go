package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Status represents the health status of a single upstream
type Status string

const (
	StatusOnline  Status = "online"
	StatusSlow    Status = "slow"
	StatusOffline Status = "offline"
)

// Overall is the reduced status across all probes
type Overall string

const (
	OverallHealthy  Overall = "healthy"
	OverallDegraded Overall = "degraded"
	OverallDown     Overall = "down"
)

// StatusCode maps an overall status to the HTTP code of the health endpoint
func (o Overall) StatusCode() int {
	switch o {
	case OverallHealthy:
		return http.StatusOK
	case OverallDegraded:
		return http.StatusMultiStatus
	default:
		return http.StatusServiceUnavailable
	}
}

// Result represents the result of a single health probe
type Result struct {
	Name         string
	URL          string
	Status       Status
	ResponseTime time.Duration
	CheckedAt    time.Time
	Error        string
}

type resultJSON struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Status       Status `json:"status"`
	ResponseTime int64  `json:"responseTime"`
	LastChecked  string `json:"lastChecked"`
	Error        string `json:"error,omitempty"`
}

// MarshalJSON renders response time in milliseconds and timestamps as ISO-8601
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Name:         r.Name,
		URL:          r.URL,
		Status:       r.Status,
		ResponseTime: r.ResponseTime.Milliseconds(),
		LastChecked:  isoTime(r.CheckedAt),
		Error:        r.Error,
	})
}

// Report is one full health check. It is built fresh on every call.
type Report struct {
	Overall   Overall
	APIs      []Result
	Timestamp time.Time
}

// MarshalJSON keeps apis an array even when no probes are configured
func (r Report) MarshalJSON() ([]byte, error) {
	apis := r.APIs
	if apis == nil {
		apis = []Result{}
	}
	return json.Marshal(struct {
		Overall   Overall  `json:"overall"`
		APIs      []Result `json:"apis"`
		Timestamp string   `json:"timestamp"`
	}{r.Overall, apis, isoTime(r.Timestamp)})
}

// StatusCode returns 200, 207 or 503
func (r Report) StatusCode() int {
	return r.Overall.StatusCode()
}

// Summary formats a one-line description for logs
func (r Report) Summary() string {
	parts := make([]string, 0, len(r.APIs))
	for _, api := range r.APIs {
		parts = append(parts, fmt.Sprintf("%s: %s (%dms)", api.Name, api.Status, api.ResponseTime.Milliseconds()))
	}
	return fmt.Sprintf("Overall: %s | %s", r.Overall, strings.Join(parts, ", "))
}

// Counts returns how many probes are in each status
func (r Report) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, api := range r.APIs {
		counts[api.Status]++
	}
	return counts
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
