// audit/service.go
package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
)

// Service is the decision trail. Record never blocks the decision
// path: entries go through a bounded queue drained by a background
// writer, and when the queue is full the oldest entry is dropped.
type Service interface {
	Record(entry Entry)
	Query(ctx context.Context, filter Filter) ([]Entry, error)
	Stats(ctx context.Context, filter Filter) (*Stats, error)
	Dropped() uint64
	Close(ctx context.Context) error
}

type service struct {
	repo    Repository
	queue   chan Entry
	dropped atomic.Uint64
	writes  atomic.Uint64
	failed  atomic.Uint64

	wg      sync.WaitGroup
	closing chan struct{}
	once    sync.Once
}

func NewService(repo Repository, queueSize int) Service {
	if queueSize <= 0 {
		queueSize = 1000
	}
	s := &service{
		repo:    repo,
		queue:   make(chan Entry, queueSize),
		closing: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

// Record enqueues an entry, evicting the oldest one when full.
func (s *service) Record(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	select {
	case s.queue <- entry:
		return
	default:
	}

	// Queue full: shed the oldest entry and retry once. The retry can
	// still lose a race with other producers; shed again rather than
	// block.
	select {
	case old := <-s.queue:
		s.dropped.Add(1)
		logger.Warn("Audit queue full, dropped oldest entry",
			zap.String("droppedID", old.ID),
			zap.Uint64("totalDropped", s.dropped.Load()),
			zap.Int("depth", len(s.queue)))
	default:
	}

	select {
	case s.queue <- entry:
	default:
		s.dropped.Add(1)
	}
}

func (s *service) drain() {
	defer s.wg.Done()
	for {
		select {
		case entry := <-s.queue:
			s.write(entry)
		case <-s.closing:
			// Flush whatever is left.
			for {
				select {
				case entry := <-s.queue:
					s.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *service) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Write(ctx, entry); err != nil {
		s.failed.Add(1)
		failure := &fw_errors.AuditWriteFailure{Err: err}
		logger.Error("Audit write failed",
			zap.Error(failure),
			zap.String("entryID", entry.ID),
			zap.Uint64("totalFailed", s.failed.Load()))
		return
	}
	s.writes.Add(1)
}

func (s *service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	return s.repo.Query(ctx, filter)
}

func (s *service) Stats(ctx context.Context, filter Filter) (*Stats, error) {
	entries, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:      len(entries),
		ByOutcome:  make(map[string]int),
		ByRule:     make(map[string]int),
		ByEmployee: make(map[string]int),
		Dropped:    s.dropped.Load(),
	}
	for _, e := range entries {
		stats.ByOutcome[e.Outcome]++
		if e.RuleID != "" {
			stats.ByRule[e.RuleID]++
		}
		stats.ByEmployee[e.EmployeeID]++
	}
	return stats, nil
}

func (s *service) Dropped() uint64 {
	return s.dropped.Load()
}

// Close stops the writer after flushing the queue.
func (s *service) Close(ctx context.Context) error {
	s.once.Do(func() { close(s.closing) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
