// Package cron exposes the batch endpoint for external schedulers. The
// endpoint runs the follow-up dispatch first and the aging pass second, so
// a quote demoted by its final follow-up is not double-handled.
package cron

import (
	"net/http"
	"time"

	"doorcraft_backend/internal/aging"
	"doorcraft_backend/internal/followup"
	apphttp "doorcraft_backend/internal/http"
	"doorcraft_backend/platform/httpkit"
	"doorcraft_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RunResponse is the summary returned to the external scheduler.
type RunResponse struct {
	Sent      int       `json:"sent"`
	Aged      int64     `json:"aged"`
	Errors    int       `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// Module represents the batch endpoint module.
type Module struct {
	followUp *followup.Job
	aging    *aging.Job
	log      *logger.Logger
}

// NewModule creates a new cron module.
func NewModule(followUpJob *followup.Job, agingJob *aging.Job, log *logger.Logger) *Module {
	return &Module{
		followUp: followUpJob,
		aging:    agingJob,
		log:      log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "cron"
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Cron.POST("/run", m.Run)
}

// Run executes both batch jobs and reports the aggregate summary.
func (m *Module) Run(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	sent, followUpErrs := m.followUp.Run(ctx, now)
	aged, agingErrs := m.aging.Run(ctx, now)

	resp := RunResponse{
		Sent:      sent,
		Aged:      aged,
		Errors:    followUpErrs + agingErrs,
		Timestamp: now,
	}
	m.log.Info("batch run finished", "sent", resp.Sent, "aged", resp.Aged, "errors", resp.Errors)

	httpkit.JSON(c, http.StatusOK, resp)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
