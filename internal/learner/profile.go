// Package learner holds one learner's progression across process runs. It
// wraps the pure progression engine with validation and persistence.
package learner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/store"
)

// snapshotVersion is the SnapshotData layout written by this package.
const snapshotVersion = 1

// ErrSnapshotVersion is returned by Open when the stored snapshot was written
// by a newer release.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Options configures a Profile. Snapshots and Events may be nil, in which
// case progress lives only in memory. When Tx is set, each recorded attempt
// and the snapshot it produces are written in one transaction.
type Options struct {
	Learner          string
	Engine           *progression.Engine
	Snapshots        store.SnapshotRepo
	Events           store.EventRepo
	Tx               store.TxRunner
	Logger           *zap.Logger
	SnapshotsToKeep  int
	SuccessThreshold float64
}

// Profile is the host-side holder of a learner's progression state. All
// methods are safe for concurrent use.
type Profile struct {
	mu        sync.Mutex
	learner   string
	sessionID string
	engine    *progression.Engine
	snapshots store.SnapshotRepo
	events    store.EventRepo
	tx        store.TxRunner
	base      *zap.Logger
	logger    *zap.Logger
	keep      int
	threshold float64

	state progression.State
}

// Open restores the learner's latest snapshot, or starts fresh if none exists.
func Open(ctx context.Context, opts Options) (*Profile, error) {
	if opts.Engine == nil {
		return nil, errors.New("learner: engine is required")
	}
	if opts.Learner == "" {
		return nil, errors.New("learner: name is required")
	}
	p := &Profile{
		learner:   opts.Learner,
		sessionID: uuid.NewString(),
		engine:    opts.Engine,
		snapshots: opts.Snapshots,
		events:    opts.Events,
		tx:        opts.Tx,
		base:      opts.Logger,
		keep:      opts.SnapshotsToKeep,
		threshold: opts.SuccessThreshold,
		state:     opts.Engine.Reset(),
	}
	if p.base == nil {
		p.base = zap.NewNop()
	}
	if p.keep <= 0 {
		p.keep = 5
	}
	if p.threshold <= 0 {
		p.threshold = 0.7
	}
	p.bindLogger()

	if err := p.restore(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// bindLogger tags the logger with the learner and the current session.
func (p *Profile) bindLogger() {
	p.logger = p.base.With(zap.String("learner", p.learner), zap.String("session_id", p.sessionID))
}

func (p *Profile) restore(ctx context.Context) error {
	if p.snapshots == nil {
		return nil
	}
	snap, err := p.snapshots.Latest(ctx, p.learner)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil || len(snap.Data.State) == 0 {
		p.logger.Debug("no snapshot, starting fresh")
		return nil
	}
	if snap.Data.Version > snapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Data.Version)
	}
	state, err := progression.Restore(snap.Data.State)
	if err != nil {
		return fmt.Errorf("restore snapshot %d: %w", snap.ID, err)
	}
	p.state = state
	p.logger.Debug("restored snapshot",
		zap.Int64("sequence", snap.Sequence),
		zap.Int("completed", state.CompletedCount()))
	return nil
}

// Name returns the learner name.
func (p *Profile) Name() string {
	return p.learner
}

// SessionID identifies this process run in the attempt log.
func (p *Profile) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

// Engine returns the engine the profile evaluates with.
func (p *Profile) Engine() *progression.Engine {
	return p.engine
}

// Succeeded applies the host success rule to an accuracy.
func (p *Profile) Succeeded(accuracy float64) bool {
	return accuracy >= p.threshold
}

// State returns a copy of the current progression state.
func (p *Profile) State() progression.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

// Summary reports overall progress.
func (p *Profile) Summary() progression.Summary {
	return p.engine.Summary(p.State())
}

// Assessment reports per-checkpoint progress.
func (p *Profile) Assessment() progression.Assessment {
	return p.engine.Assessment(p.State())
}

// Recommend picks the next exercise from the given catalog exercises.
func (p *Profile) Recommend(exercises []content.Exercise) (content.Exercise, bool) {
	return p.engine.Recommend(exercises, p.State())
}

// Record validates and applies one attempt, then appends it to the event log
// and saves a snapshot. exerciseID may be empty for attempts made outside an
// exercise.
func (p *Profile) Record(ctx context.Context, exerciseID string, a progression.Attempt) (progression.Outcome, error) {
	if err := progression.ValidateAttempt(a); err != nil {
		return progression.Outcome{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next, out := p.engine.RecordAttempt(p.state, a.Checkpoint, a.Success, a.Accuracy)
	if err := p.persist(ctx, exerciseID, a, out, next); err != nil {
		return progression.Outcome{}, err
	}
	p.state = next

	p.logger.Info("attempt recorded",
		zap.String("checkpoint", string(a.Checkpoint)),
		zap.String("exercise", exerciseID),
		zap.Bool("success", a.Success),
		zap.Float64("accuracy", a.Accuracy),
		zap.Int("attempts", out.Score.Attempts),
		zap.Float64("average", out.Score.AverageAccuracy))
	if out.NewlyMastered {
		p.logger.Info("checkpoint mastered",
			zap.String("checkpoint", string(a.Checkpoint)),
			zap.Int("completed", next.CompletedCount()),
			zap.Stringer("tier", progression.CurrentTier(next)))
	}
	return out, nil
}

// RecordExercise records an exercise attempt against every checkpoint the
// exercise trains. Success follows the profile's success threshold.
func (p *Profile) RecordExercise(ctx context.Context, ex content.Exercise, accuracy float64) ([]progression.Outcome, error) {
	targets := ex.Targets()
	if len(targets) == 0 {
		return nil, fmt.Errorf("exercise %q trains no checkpoints", ex.ID)
	}
	outcomes := make([]progression.Outcome, 0, len(targets))
	for _, cp := range targets {
		out, err := p.Record(ctx, ex.ID, progression.Attempt{
			Checkpoint: cp,
			Success:    p.Succeeded(accuracy),
			Accuracy:   accuracy,
		})
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// persist writes the attempt event and the resulting snapshot, atomically
// when a TxRunner is configured. Called with p.mu held.
func (p *Profile) persist(ctx context.Context, exerciseID string, a progression.Attempt, out progression.Outcome, next progression.State) error {
	write := func(r store.Repos) error {
		return p.write(ctx, r, exerciseID, a, out, next)
	}
	var err error
	if p.tx != nil {
		err = p.tx.InTx(ctx, write)
	} else {
		err = write(store.Repos{Snapshots: p.snapshots, Events: p.events})
	}
	if err != nil {
		return err
	}

	if p.snapshots != nil {
		if err := p.snapshots.Prune(ctx, p.learner, p.keep); err != nil {
			// Old snapshots only cost disk space.
			p.logger.Warn("prune snapshots", zap.Error(err))
		}
	}
	return nil
}

func (p *Profile) write(ctx context.Context, r store.Repos, exerciseID string, a progression.Attempt, out progression.Outcome, next progression.State) error {
	var seq int64
	if r.Events != nil {
		var err error
		seq, err = r.Events.AppendAttempt(ctx, store.AttemptEventData{
			Learner:       p.learner,
			SessionID:     p.sessionID,
			ExerciseID:    exerciseID,
			Checkpoint:    string(a.Checkpoint),
			Success:       a.Success,
			Accuracy:      a.Accuracy,
			NewlyMastered: out.NewlyMastered,
		})
		if err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
	}

	if r.Snapshots == nil {
		return nil
	}
	data, err := progression.Marshal(next)
	if err != nil {
		return err
	}
	err = r.Snapshots.Save(ctx, &store.Snapshot{
		Learner:  p.learner,
		Sequence: seq,
		Data:     store.SnapshotData{Version: snapshotVersion, State: data},
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Reset discards all saved progress for the learner and starts a new
// session from a fresh state. The attempt log is kept.
func (p *Profile) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snapshots != nil {
		if err := p.snapshots.Delete(ctx, p.learner); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
	}
	p.state = p.engine.Reset()
	old := p.sessionID
	p.sessionID = uuid.NewString()
	p.bindLogger()
	p.logger.Info("progress reset", zap.String("previous_session_id", old))
	return nil
}

// RecentAttempts returns the learner's latest attempts, newest first.
func (p *Profile) RecentAttempts(ctx context.Context, limit int) ([]store.AttemptEvent, error) {
	if p.events == nil {
		return nil, nil
	}
	return p.events.RecentAttempts(ctx, p.learner, limit)
}
