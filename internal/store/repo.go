package store

import (
	"context"
	"encoding/json"
	"time"
)

// SnapshotData captures the learner state at a point in time. State is the
// serialized progression state; the store does not interpret it.
type SnapshotData struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state,omitempty"`
}

// Snapshot represents a point-in-time capture of one learner's state.
type Snapshot struct {
	ID        int
	Learner   string
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for learner, or nil if none exist.
	Latest(ctx context.Context, learner string) (*Snapshot, error)

	// Delete removes every snapshot for learner.
	Delete(ctx context.Context, learner string) error

	// Prune deletes all but the N most recent snapshots for learner.
	Prune(ctx context.Context, learner string, keep int) error
}

// AttemptEventData captures one recorded practice attempt.
type AttemptEventData struct {
	Learner       string
	SessionID     string
	ExerciseID    string
	Checkpoint    string
	Success       bool
	Accuracy      float64
	NewlyMastered bool
}

// AttemptEvent is a stored attempt with its position in the event log.
type AttemptEvent struct {
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendAttempt records a practice attempt and returns its sequence.
	AppendAttempt(ctx context.Context, data AttemptEventData) (int64, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentAttempts returns up to limit attempts for learner, newest first.
	RecentAttempts(ctx context.Context, learner string, limit int) ([]AttemptEvent, error)
}

// Repos bundles the repositories bound to one connection.
type Repos struct {
	Snapshots SnapshotRepo
	Events    EventRepo
}

// TxRunner runs a unit of work atomically. *Store implements it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Repos) error) error
}
