// controller/decision_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/service"
	"github.com/skyber-io/privacy-firewall/util"
)

type DecisionController struct {
	decisionService service.IDecisionService
}

func NewDecisionController(decisionService service.IDecisionService) *DecisionController {
	return &DecisionController{
		decisionService: decisionService,
	}
}

// RegisterRoutes registers the API routes
func (dc *DecisionController) RegisterRoutes(r *gin.RouterGroup) {
	decisions := r.Group("/decisions")
	{
		decisions.POST("/evaluate", dc.Evaluate)
	}
}

// Evaluate endpoint
func (dc *DecisionController) Evaluate(c *gin.Context) {
	var request model.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", fw_errors.ErrInvalidRequest)
		return
	}

	decision, err := dc.decisionService.Evaluate(c, request)
	if err != nil {
		var validationErrs fw_errors.ValidationErrors
		var lookupErr *fw_errors.FactLookupError
		switch {
		case errors.As(err, &validationErrs):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		case errors.As(err, &lookupErr):
			util.RespondWithError(c, http.StatusNotFound, err.Error(), err)
		case errors.Is(err, fw_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate request", err)
		}
		return
	}

	c.JSON(http.StatusOK, decision)
}
