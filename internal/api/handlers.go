package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juststeveking/spacecount/internal/fetcher"
	"github.com/juststeveking/spacecount/internal/monitor"
)

const (
	dataSourceHeader = "X-Data-Source"

	peopleCacheControl = "public, max-age=300"
	issCacheControl    = "public, max-age=5"
	healthCacheControl = "no-store"
)

// HealthChecker produces a fresh health report on every call
type HealthChecker interface {
	CheckAll(ctx context.Context) monitor.Report
}

// ReportObserver is told about every health report served
type ReportObserver interface {
	ObserveReport(report monitor.Report)
}

// Handlers serves the three aggregation endpoints
type Handlers struct {
	People   monitor.RosterSource
	ISS      monitor.PositionSource
	Health   HealthChecker
	Observer ReportObserver
}

// SpacePeople handles GET /api/space-people
func (h *Handlers) SpacePeople(c *gin.Context) {
	out := h.People.Get(detach(c))
	writeOutcome(c, peopleCacheControl, out.Source, out.StatusCode, out.Value)
}

// ISSLocation handles GET /api/iss-location
func (h *Handlers) ISSLocation(c *gin.Context) {
	out := h.ISS.Get(detach(c))
	writeOutcome(c, issCacheControl, out.Source, out.StatusCode, out.Value)
}

// APIHealth handles GET /api/health. Reports are never cached.
func (h *Handlers) APIHealth(c *gin.Context) {
	report := h.Health.CheckAll(c.Request.Context())
	if h.Observer != nil {
		h.Observer.ObserveReport(report)
	}

	c.Header("Cache-Control", healthCacheControl)
	c.JSON(report.StatusCode(), report)
}

// Liveness handles GET /healthz for the process itself
func Liveness(c *gin.Context) {
	c.Header("Cache-Control", healthCacheControl)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeOutcome(c *gin.Context, cacheControl string, source fetcher.Source, status int, body interface{}) {
	c.Header("Cache-Control", cacheControl)
	c.Header(dataSourceHeader, string(source))
	c.JSON(status, body)
}

// detach keeps a client disconnect from cancelling an upstream fetch that
// concurrent requests may be sharing. The fetch timeout still applies.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
