// audit/service_test.go
package audit_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyber-io/privacy-firewall/audit"
	logger "github.com/skyber-io/privacy-firewall/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

func entry(employeeID, outcome string, ts time.Time) audit.Entry {
	return audit.Entry{
		EmployeeID: employeeID,
		ResourceID: "res-1",
		Action:     "read",
		Outcome:    outcome,
		RuleID:     "rule-1",
		Reason:     "test",
		Timestamp:  ts,
	}
}

func TestRecordAndQuery(t *testing.T) {
	repo := audit.NewMemoryRepository(100)
	svc := audit.NewService(repo, 10)

	now := time.Now()
	svc.Record(entry("emp-1", audit.OutcomeAllow, now))
	svc.Record(entry("emp-1", audit.OutcomeDeny, now.Add(time.Second)))
	svc.Record(entry("emp-2", audit.OutcomeAllow, now.Add(2*time.Second)))

	ctx := context.Background()
	require.NoError(t, svc.Close(ctx))

	all, err := svc.Query(ctx, audit.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, e := range all {
		assert.NotEmpty(t, e.ID)
	}

	byEmployee, err := svc.Query(ctx, audit.Filter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Len(t, byEmployee, 2)

	denied, err := svc.Query(ctx, audit.Filter{Outcome: audit.OutcomeDeny})
	require.NoError(t, err)
	assert.Len(t, denied, 1)

	windowed, err := svc.Query(ctx, audit.Filter{
		From: now.Add(500 * time.Millisecond),
		To:   now.Add(1500 * time.Millisecond),
	})
	require.NoError(t, err)
	assert.Len(t, windowed, 1)
}

func TestStats(t *testing.T) {
	repo := audit.NewMemoryRepository(100)
	svc := audit.NewService(repo, 10)

	now := time.Now()
	svc.Record(entry("emp-1", audit.OutcomeAllow, now))
	svc.Record(entry("emp-1", audit.OutcomeDeny, now))
	svc.Record(entry("emp-2", audit.OutcomeError, now))

	ctx := context.Background()
	require.NoError(t, svc.Close(ctx))

	stats, err := svc.Stats(ctx, audit.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByOutcome[audit.OutcomeAllow])
	assert.Equal(t, 1, stats.ByOutcome[audit.OutcomeDeny])
	assert.Equal(t, 1, stats.ByOutcome[audit.OutcomeError])
	assert.Equal(t, 2, stats.ByEmployee["emp-1"])
	assert.Equal(t, 3, stats.ByRule["rule-1"])
	assert.Equal(t, uint64(0), stats.Dropped)
}

// blockingRepository parks every write until released, so the queue can
// be filled deterministically.
type blockingRepository struct {
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	once    sync.Once
	entries []audit.Entry
}

func newBlockingRepository() *blockingRepository {
	return &blockingRepository{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *blockingRepository) Write(ctx context.Context, e audit.Entry) error {
	r.once.Do(func() { close(r.started) })
	<-r.release
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	return nil
}

func (r *blockingRepository) Query(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func TestQueueFullDropsOldest(t *testing.T) {
	repo := newBlockingRepository()
	svc := audit.NewService(repo, 1)

	now := time.Now()

	// The writer picks this one up and blocks inside the repository.
	svc.Record(entry("emp-a", audit.OutcomeAllow, now))
	select {
	case <-repo.started:
	case <-time.After(time.Second):
		t.Fatal("writer never picked up the first entry")
	}

	// Fills the single queue slot.
	svc.Record(entry("emp-b", audit.OutcomeAllow, now))
	assert.Equal(t, uint64(0), svc.Dropped())

	// Queue is full: emp-b is shed, emp-c takes its place.
	svc.Record(entry("emp-c", audit.OutcomeAllow, now))
	assert.Equal(t, uint64(1), svc.Dropped())

	close(repo.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Close(ctx))

	written, err := repo.Query(ctx, audit.Filter{})
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, "emp-a", written[0].EmployeeID)
	assert.Equal(t, "emp-c", written[1].EmployeeID)
}

// failingRepository errors every write.
type failingRepository struct{}

func (failingRepository) Write(ctx context.Context, e audit.Entry) error {
	return errors.New("index unavailable")
}

func (failingRepository) Query(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	return nil, nil
}

func TestWriteFailuresDoNotBlockRecording(t *testing.T) {
	svc := audit.NewService(failingRepository{}, 10)

	for i := 0; i < 5; i++ {
		svc.Record(entry("emp-1", audit.OutcomeAllow, time.Now()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Close(ctx))
	assert.Equal(t, uint64(0), svc.Dropped())
}
