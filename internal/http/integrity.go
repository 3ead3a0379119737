package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/database/integrity"
)

// IntegrityController reports and removes orphaned join rows.
type IntegrityController struct {
	store     IntegrityStore
	scheduler SweepStatusReporter
}

// NewIntegrityController creates the controller. scheduler may be nil when
// periodic sweeps are disabled.
func NewIntegrityController(store IntegrityStore, scheduler SweepStatusReporter) *IntegrityController {
	return &IntegrityController{store: store, scheduler: scheduler}
}

type OrphansResponse struct {
	Report integrity.OrphanReport `json:"report"`
	Total  int64                  `json:"total"`
}

// CountOrphans handles GET /admin/orphans
func (ic *IntegrityController) CountOrphans(c *gin.Context) {
	report, err := ic.store.CountOrphans(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "count orphans")
		return
	}
	c.JSON(http.StatusOK, OrphansResponse{Report: report, Total: report.Total()})
}

// SweepOrphans handles POST /admin/orphans/sweep
// The sweep runs inline; use POST /tasks/sweep_orphans/run to queue it.
func (ic *IntegrityController) SweepOrphans(c *gin.Context) {
	report, err := ic.store.SweepOrphans(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "sweep orphans")
		return
	}
	c.JSON(http.StatusOK, OrphansResponse{Report: report, Total: report.Total()})
}

// SweepStatus handles GET /admin/sweep/status
func (ic *IntegrityController) SweepStatus(c *gin.Context) {
	if ic.scheduler == nil {
		c.JSON(http.StatusOK, gin.H{"running": false})
		return
	}
	c.JSON(http.StatusOK, ic.scheduler.Status())
}
