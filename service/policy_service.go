// service/policy_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
	"github.com/skyber-io/privacy-firewall/util"
)

// IPolicyService exposes the live rule set and its reload.
type IPolicyService interface {
	ListRules(ctx context.Context) ([]policy.Rule, uint64)
	Reload(ctx context.Context) (int, error)
}

// PolicyService owns the rules file and the store it feeds.
type PolicyService struct {
	store  *policy.Store
	path   string
	events *util.EventBus
}

func NewPolicyService(store *policy.Store, path string, events *util.EventBus) *PolicyService {
	return &PolicyService{store: store, path: path, events: events}
}

// ListRules returns the live snapshot's rules and version.
func (s *PolicyService) ListRules(ctx context.Context) ([]policy.Rule, uint64) {
	snap := s.store.Current()
	return snap.Rules(), snap.Version()
}

// Reload re-reads the rules file and hot-swaps the snapshot. A failed
// load keeps the previous snapshot serving.
func (s *PolicyService) Reload(ctx context.Context) (int, error) {
	rules, err := policy.LoadFile(s.path)
	if err != nil {
		logger.Error("Policy file read failed", zap.Error(err), zap.String("path", s.path))
		return 0, err
	}

	if err := s.store.Load(rules); err != nil {
		return 0, err
	}

	snap := s.store.Current()
	s.events.Publish(ctx, util.EventPolicyReloaded, snap.Version())
	logger.Info("Policy rules reloaded",
		zap.String("path", s.path),
		zap.Int("rules", len(rules)),
		zap.Uint64("version", snap.Version()))
	return len(rules), nil
}
