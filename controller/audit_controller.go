// controller/audit_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyber-io/privacy-firewall/audit"
	"github.com/skyber-io/privacy-firewall/util"
	helper_util "github.com/skyber-io/privacy-firewall/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit")
	{
		logs.GET("/logs", ac.QueryLogs)
		logs.GET("/stats", ac.GetStats)
	}
}

// QueryLogs endpoint
func (ac *AuditController) QueryLogs(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range", err)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	entries, err := ac.auditService.Query(c, filter)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit logs", err)
		return
	}

	total := len(entries)
	if offset >= total {
		entries = nil
	} else {
		entries = entries[offset:]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries), "total": total})
}

// GetStats endpoint
func (ac *AuditController) GetStats(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range", err)
		return
	}

	stats, err := ac.auditService.Stats(c, filter)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute audit stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func filterFromQuery(c *gin.Context) (audit.Filter, error) {
	from, to, err := helper_util.GetTimeRangeParams(c)
	if err != nil {
		return audit.Filter{}, err
	}

	return audit.Filter{
		From:       from,
		To:         to,
		EmployeeID: c.Query("employee_id"),
		ResourceID: c.Query("resource_id"),
		Outcome:    c.Query("outcome"),
	}, nil
}
