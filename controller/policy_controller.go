// controller/policy_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	"github.com/skyber-io/privacy-firewall/service"
	"github.com/skyber-io/privacy-firewall/util"
)

type PolicyController struct {
	policyService service.IPolicyService
}

func NewPolicyController(policyService service.IPolicyService) *PolicyController {
	return &PolicyController{
		policyService: policyService,
	}
}

// RegisterRoutes registers the API routes
func (pc *PolicyController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.GET("", pc.ListRules)
		policies.POST("/reload", pc.Reload)
	}
}

// ListRules endpoint
func (pc *PolicyController) ListRules(c *gin.Context) {
	rules, version := pc.policyService.ListRules(c)
	c.JSON(http.StatusOK, gin.H{"rules": rules, "version": version, "count": len(rules)})
}

// Reload endpoint
func (pc *PolicyController) Reload(c *gin.Context) {
	count, err := pc.policyService.Reload(c)
	if err != nil {
		var loadErr *fw_errors.PolicyLoadError
		switch {
		case errors.As(err, &loadErr):
			util.RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), err)
		case errors.Is(err, fw_errors.ErrPolicyFileMissing):
			util.RespondWithError(c, http.StatusNotFound, "Policy rules file not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to reload policies", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reloaded": count})
}
