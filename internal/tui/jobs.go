package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type jobKind string

type jobStatus string

const (
	jobKindSummarize jobKind = "summarize"
	jobKindImport    jobKind = "import"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
	jobStatusCanceled  jobStatus = "canceled"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs blocking work off the update loop. Every job gets its own
// deadline and can be canceled by id until it reports back.
type jobBus struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func newJobBus(timeout time.Duration, logger *zap.Logger) *jobBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobBus{
		timeout: timeout,
		logger:  logger.Named("jobs"),
		cancels: map[string]context.CancelFunc{},
	}
}

// Start emits a running signal, then runs the job.
func (b *jobBus) Start(kind jobKind, id string, runner jobRunner) tea.Cmd {
	startCmd, runCmd := b.prepare(kind, id, runner)
	return tea.Sequence(startCmd, runCmd)
}

func (b *jobBus) prepare(kind jobKind, id string, runner jobRunner) (tea.Cmd, tea.Cmd) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if b.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), b.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	b.mu.Lock()
	b.cancels[id] = cancel
	b.mu.Unlock()

	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		b.logger.Debug("job started", zap.String("id", id), zap.String("kind", string(kind)))
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		defer b.finish(id)
		payload, err := runner(ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		switch {
		case err != nil && ctx.Err() == context.Canceled:
			snapshot.Status = jobStatusCanceled
			snapshot.Err = err.Error()
		case err != nil:
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		default:
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		b.logger.Info("job finished",
			zap.String("id", id),
			zap.String("kind", string(kind)),
			zap.String("status", string(snapshot.Status)),
			zap.Duration("duration", snapshot.Duration),
			zap.Error(err),
		)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}
	return startCmd, runCmd
}

func (b *jobBus) finish(id string) {
	b.mu.Lock()
	cancel, ok := b.cancels[id]
	delete(b.cancels, id)
	b.mu.Unlock()
	if ok {
		cancel()
	}
}

// Cancel aborts a running job. Unknown ids are ignored.
func (b *jobBus) Cancel(id string) {
	b.mu.Lock()
	cancel, ok := b.cancels[id]
	b.mu.Unlock()
	if ok {
		b.logger.Info("canceling job", zap.String("id", id))
		cancel()
	}
}

// CancelAll aborts every running job.
func (b *jobBus) CancelAll() {
	b.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(b.cancels))
	for _, cancel := range b.cancels {
		cancels = append(cancels, cancel)
	}
	b.mu.Unlock()
	if len(cancels) > 0 {
		b.logger.Info("canceling running jobs", zap.Int("count", len(cancels)))
	}
	for _, cancel := range cancels {
		cancel()
	}
}

// Running counts jobs that have not reported back.
func (b *jobBus) Running() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cancels)
}
