// internal/common/audit/recorder.go
package audit

import (
	"sync"
	"time"

	"archai-workers/internal/models"
)

const DefaultRepairCap = 10

// Clock is swapped in tests for a deterministic time source.
type Clock func() time.Time

// Observer is notified after every finished stage.
type Observer func(entry models.AuditEntry)

type trace struct {
	start    time.Time
	attempts int
}

// Recorder collects the execution trail of one pipeline run. A Recorder is
// never shared between runs.
type Recorder struct {
	mu           sync.Mutex
	clock        Clock
	started      time.Time
	version      string
	repairCap    int
	traces       map[string]trace
	history      []models.AuditEntry
	totalRepairs int
	observers    []Observer
}

type Option func(*Recorder)

func WithClock(c Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

func WithRepairCap(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.repairCap = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Recorder) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

func NewRecorder(version string, opts ...Option) *Recorder {
	r := &Recorder{
		clock:     time.Now,
		version:   version,
		repairCap: DefaultRepairCap,
		traces:    make(map[string]trace),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.clock()
	return r
}

// Start registers the entry time of a stage.
func (r *Recorder) Start(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traces[id] = trace{start: r.clock(), attempts: 1}
}

// Finish appends the entry for a stage. A stage finished without Start gets
// a zero duration.
func (r *Recorder) Finish(id, stage string, status models.AuditStatus, details string, repairs ...string) models.AuditEntry {
	r.mu.Lock()

	now := r.clock()
	tr, ok := r.traces[id]
	if !ok {
		tr = trace{start: now, attempts: 1}
	}
	delete(r.traces, id)

	entry := models.AuditEntry{
		ID:         id,
		Stage:      stage,
		Status:     status,
		Attempts:   tr.attempts,
		Details:    details,
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
		DurationMs: now.Sub(tr.start).Milliseconds(),
	}
	if len(repairs) > 0 {
		entry.Repairs = append([]string(nil), repairs...)
		r.totalRepairs += len(repairs)
		if r.totalRepairs > r.repairCap {
			r.totalRepairs = r.repairCap
		}
	}
	r.history = append(r.history, entry)
	observers := r.observers
	r.mu.Unlock()

	for _, o := range observers {
		o(entry)
	}
	return entry
}

// Trail returns a snapshot of the audit so far.
func (r *Recorder) Trail() models.ExecutionAudit {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := make([]models.AuditEntry, len(r.history))
	copy(history, r.history)

	return models.ExecutionAudit{
		History:             history,
		TotalRepairs:        r.totalRepairs,
		TotalDurationMs:     r.clock().Sub(r.started).Milliseconds(),
		OrchestratorVersion: r.version,
	}
}
