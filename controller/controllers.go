// controller/controllers.go
package controller

import (
	"github.com/skyber-io/privacy-firewall/audit"
	"github.com/skyber-io/privacy-firewall/service"
)

// Controllers bundles every HTTP controller for route registration.
type Controllers struct {
	Decision *DecisionController
	Audit    *AuditController
	Policy   *PolicyController
}

func InitializeControllers(
	decisionService service.IDecisionService,
	auditService audit.Service,
	policyService service.IPolicyService,
) *Controllers {
	return &Controllers{
		Decision: NewDecisionController(decisionService),
		Audit:    NewAuditController(auditService),
		Policy:   NewPolicyController(policyService),
	}
}
