// service/decision_service.go
package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skyber-io/privacy-firewall/audit"
	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/metrics"
	"github.com/skyber-io/privacy-firewall/model"
	"github.com/skyber-io/privacy-firewall/pdp/cache"
	"github.com/skyber-io/privacy-firewall/pdp/engine"
	"github.com/skyber-io/privacy-firewall/pdp/facts"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
	"github.com/skyber-io/privacy-firewall/pdp/temporal"
	"github.com/skyber-io/privacy-firewall/util"
)

// IDecisionService answers access requests.
type IDecisionService interface {
	Evaluate(ctx context.Context, request model.AccessRequest) (*model.AccessDecision, error)
}

// DecisionService runs the full pipeline: validate, build facts,
// evaluate rules and temporal context in parallel, combine, audit,
// cache.
type DecisionService struct {
	validation *util.ValidationUtil
	facts      *facts.Builder
	store      *policy.Store
	rules      *engine.RuleEvaluator
	temporal   *temporal.Evaluator
	combiner   *engine.Combiner
	cache      *cache.DecisionCache
	audit      audit.Service
	metrics    metrics.Metrics
	events     *util.EventBus

	lastDropped atomic.Uint64
}

func NewDecisionService(
	validation *util.ValidationUtil,
	factBuilder *facts.Builder,
	store *policy.Store,
	decisionCache *cache.DecisionCache,
	auditService audit.Service,
	m metrics.Metrics,
	events *util.EventBus,
) *DecisionService {
	return &DecisionService{
		validation: validation,
		facts:      factBuilder,
		store:      store,
		rules:      engine.NewRuleEvaluator(),
		temporal:   temporal.NewEvaluator(),
		combiner:   engine.NewCombiner(),
		cache:      decisionCache,
		audit:      auditService,
		metrics:    m,
		events:     events,
	}
}

// Evaluate answers one access request. Validation and fact lookup
// failures come back as errors; only genuine policy outcomes are DENY.
func (s *DecisionService) Evaluate(ctx context.Context, request model.AccessRequest) (*model.AccessDecision, error) {
	start := time.Now()
	request.Normalize(start)

	if err := s.validation.ValidateAccessRequest(request); err != nil {
		s.metrics.IncEvaluationError("validation")
		return nil, err
	}

	snap := s.store.Current()
	key := s.cache.Key(&request, snap.Version())

	decision, err := s.cache.GetOrCompute(ctx, key, func() (*model.AccessDecision, error) {
		return s.evaluate(ctx, &request, snap)
	})
	if err != nil {
		s.recordError(&request, err)
		return nil, err
	}

	if decision.Cached {
		s.metrics.IncCacheOp("hit")
	} else {
		s.metrics.IncCacheOp("miss")
	}

	s.recordDecision(&request, decision)
	s.metrics.ObserveDecision(decision.Decision, decision.Method, time.Since(start).Seconds())
	s.events.Publish(ctx, util.EventDecisionMade, decision)

	logger.Info("Access request decided",
		zap.String("subjectID", request.SubjectID),
		zap.String("resourceID", request.ResourceID),
		zap.String("action", request.Action),
		zap.String("decision", decision.Decision),
		zap.String("method", decision.Method),
		zap.Float64("confidence", decision.Confidence),
		zap.Bool("cached", decision.Cached),
		zap.Duration("duration", time.Since(start)))
	return decision, nil
}

func (s *DecisionService) evaluate(ctx context.Context, request *model.AccessRequest, snap *policy.Snapshot) (*model.AccessDecision, error) {
	factSet, err := s.facts.Build(ctx, request.SubjectID, request.ResourceID, request.Timestamp)
	if err != nil {
		return nil, err
	}

	var (
		ruleDecision     model.RuleDecision
		temporalDecision model.TemporalDecision
	)

	// Both evaluators are pure once the facts exist; run them side by
	// side.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		ruleDecision = s.rules.EvaluateRules(factSet, snap)
		return nil
	})
	g.Go(func() error {
		temporalDecision = s.temporal.Evaluate(s.temporalContext(request, factSet))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	emergencyRequested := request.EmergencyOverride || temporalDecision.Override
	decision := s.combiner.Combine(ruleDecision, temporalDecision, emergencyRequested, request.Timestamp)
	return &decision, nil
}

func (s *DecisionService) temporalContext(request *model.AccessRequest, factSet *model.FactSet) temporal.Context {
	tc := temporal.Context{
		Timestamp:                request.Timestamp,
		Situation:                request.Situation,
		Urgency:                  request.Urgency,
		EmergencyOverride:        request.EmergencyOverride,
		EmergencyAuthorizationID: request.EmergencyAuthorizationID,
		BaseRole:                 factSet.Role,
		RequestedScope:           factSet.ResourceScope,
		Grant:                    request.Grant,
	}
	// The caller's window is authoritative; the business-hours window is
	// only attached when none was supplied.
	if request.Window != nil {
		tc.Windows = append(tc.Windows, temporal.Window{
			Type:  windowType(request.Window.Type),
			Start: request.Window.Start,
			End:   request.Window.End,
		})
	} else if w, ok := temporal.BusinessHoursWindow(request.Timestamp); ok {
		tc.Windows = append(tc.Windows, w)
	}
	return tc
}

func windowType(t string) string {
	if t == "" {
		return temporal.WindowAccess
	}
	return t
}

func (s *DecisionService) recordDecision(request *model.AccessRequest, decision *model.AccessDecision) {
	s.audit.Record(audit.Entry{
		Timestamp:  decision.Timestamp,
		EmployeeID: request.SubjectID,
		ResourceID: request.ResourceID,
		Action:     request.Action,
		Outcome:    decision.Decision,
		Method:     decision.Method,
		RuleID:     decision.Rule.RuleID,
		Confidence: decision.Confidence,
		Reason:     decision.Reason,
	})
	s.trackDropped()
}

func (s *DecisionService) recordError(request *model.AccessRequest, err error) {
	kind := "internal"
	if fw_errors.IsFactLookupError(err) {
		kind = "fact_lookup"
	}
	s.metrics.IncEvaluationError(kind)

	s.audit.Record(audit.Entry{
		Timestamp:  request.Timestamp,
		EmployeeID: request.SubjectID,
		ResourceID: request.ResourceID,
		Action:     request.Action,
		Outcome:    audit.OutcomeError,
		Reason:     err.Error(),
	})
	s.trackDropped()
}

func (s *DecisionService) trackDropped() {
	dropped := s.audit.Dropped()
	for {
		last := s.lastDropped.Load()
		if dropped <= last {
			return
		}
		if s.lastDropped.CompareAndSwap(last, dropped) {
			for i := last; i < dropped; i++ {
				s.metrics.IncAuditDropped()
			}
			return
		}
	}
}
