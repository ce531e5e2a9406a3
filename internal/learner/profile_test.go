package learner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "learner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func openProfile(t *testing.T, st *store.Store, name string) *Profile {
	t.Helper()
	p, err := Open(context.Background(), Options{
		Learner:         name,
		Engine:          progression.New(curriculum.DefaultConfig()),
		Snapshots:       st.SnapshotRepo(),
		Events:          st.EventRepo(),
		Tx:              st,
		SnapshotsToKeep: 3,
	})
	require.NoError(t, err)
	return p
}

var errDiskFull = errors.New("disk full")

type failingSnapshots struct {
	store.SnapshotRepo
}

func (failingSnapshots) Save(context.Context, *store.Snapshot) error {
	return errDiskFull
}

// failingSaveTx runs work in a real store transaction whose snapshot saves fail.
type failingSaveTx struct {
	st *store.Store
}

func (f failingSaveTx) InTx(ctx context.Context, fn func(store.Repos) error) error {
	return f.st.InTx(ctx, func(r store.Repos) error {
		r.Snapshots = failingSnapshots{r.Snapshots}
		return fn(r)
	})
}

func attempt(cp curriculum.Checkpoint, accuracy float64) progression.Attempt {
	return progression.Attempt{Checkpoint: cp, Success: accuracy >= 0.7, Accuracy: accuracy}
}

func TestOpen_FreshLearner(t *testing.T) {
	p := openProfile(t, openStore(t), "ada")

	sum := p.Summary()
	assert.Equal(t, curriculum.TierFoundation, sum.CurrentTier)
	assert.Zero(t, sum.CompletedCount)
	assert.Equal(t, progression.DeriveSettings(0), p.State().AdaptiveSettings)
	assert.NotEmpty(t, p.SessionID())
}

func TestOpen_RequiresEngineAndName(t *testing.T) {
	_, err := Open(context.Background(), Options{Learner: "ada"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{Engine: progression.New(curriculum.DefaultConfig())})
	assert.Error(t, err)
}

func TestRecord_PersistsAcrossOpen(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := openProfile(t, st, "ada")

	var last progression.Outcome
	for range 5 {
		out, err := p.Record(ctx, "shapes-by-size", attempt(curriculum.BasicSizing, 0.9))
		require.NoError(t, err)
		last = out
	}
	require.True(t, last.NewlyMastered)

	reopened := openProfile(t, st, "ada")
	assert.Equal(t, p.State(), reopened.State())
	assert.True(t, reopened.State().IsCompleted(curriculum.BasicSizing))
	assert.NotEqual(t, p.SessionID(), reopened.SessionID())
}

func TestRecord_RejectsInvalidAttempt(t *testing.T) {
	st := openStore(t)
	p := openProfile(t, st, "ada")

	_, err := p.Record(context.Background(), "", progression.Attempt{Checkpoint: curriculum.BasicSizing, Accuracy: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, progression.ErrInvalidAttempt))

	assert.Zero(t, p.State().Score(curriculum.BasicSizing).Attempts)
	events, err := p.RecentAttempts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecord_AppendsEvents(t *testing.T) {
	ctx := context.Background()
	p := openProfile(t, openStore(t), "ada")

	_, err := p.Record(ctx, "pairs", attempt(curriculum.RelativeSizing, 0.4))
	require.NoError(t, err)
	_, err = p.Record(ctx, "pairs", attempt(curriculum.RelativeSizing, 0.8))
	require.NoError(t, err)

	events, err := p.RecentAttempts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.InDelta(t, 0.8, events[0].Accuracy, 1e-9)
	assert.True(t, events[0].Success)
	assert.False(t, events[1].Success)
	assert.Equal(t, p.SessionID(), events[0].SessionID)
	assert.Equal(t, "pairs", events[0].ExerciseID)
}

func TestRecord_FailedSnapshotDiscardsAttempt(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p, err := Open(ctx, Options{
		Learner:   "ada",
		Engine:    progression.New(curriculum.DefaultConfig()),
		Snapshots: st.SnapshotRepo(),
		Events:    st.EventRepo(),
		Tx:        failingSaveTx{st: st},
	})
	require.NoError(t, err)

	_, err = p.Record(ctx, "shapes-by-size", attempt(curriculum.BasicSizing, 0.9))
	require.ErrorIs(t, err, errDiskFull)

	assert.Zero(t, p.State().Score(curriculum.BasicSizing).Attempts)
	events, err := p.RecentAttempts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestState_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	p := openProfile(t, openStore(t), "ada")
	_, err := p.Record(ctx, "", attempt(curriculum.BasicSizing, 0.9))
	require.NoError(t, err)

	s := p.State()
	s.SkillScores[curriculum.BasicSizing] = progression.SkillScore{Attempts: 99}
	s.CompletedCheckpoints = append(s.CompletedCheckpoints, curriculum.TeamEstimation)

	assert.Equal(t, 1, p.State().Score(curriculum.BasicSizing).Attempts)
	assert.False(t, p.State().IsCompleted(curriculum.TeamEstimation))
}

func TestRecord_PrunesSnapshots(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := openProfile(t, st, "ada")

	for range 6 {
		_, err := p.Record(ctx, "", attempt(curriculum.ComplexityFactors, 0.5))
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM snapshots WHERE learner = 'ada'`).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestRecordExercise_TrainsEveryTarget(t *testing.T) {
	ctx := context.Background()
	p := openProfile(t, openStore(t), "ada")
	ex := content.Exercise{ID: "reference-story", Type: curriculum.ExerciseReferenceSizing}

	outs, err := p.RecordExercise(ctx, ex, 0.75)
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, curriculum.BasicSizing, outs[0].Checkpoint)
	assert.Equal(t, curriculum.RelativeSizing, outs[1].Checkpoint)

	s := p.State()
	assert.Equal(t, 1, s.Score(curriculum.BasicSizing).Successes)
	assert.Equal(t, 1, s.Score(curriculum.RelativeSizing).Successes)
}

func TestRecordExercise_UnknownType(t *testing.T) {
	p := openProfile(t, openStore(t), "ada")
	_, err := p.RecordExercise(context.Background(), content.Exercise{ID: "x", Type: "interpretive_dance"}, 1)
	assert.Error(t, err)
}

func TestReset_StartsFresh(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := openProfile(t, st, "ada")
	other := openProfile(t, st, "grace")

	for range 5 {
		_, err := p.Record(ctx, "", attempt(curriculum.BasicSizing, 1))
		require.NoError(t, err)
		_, err = other.Record(ctx, "", attempt(curriculum.BasicSizing, 1))
		require.NoError(t, err)
	}
	oldSession := p.SessionID()

	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, progression.NewState(), p.State())
	assert.NotEqual(t, oldSession, p.SessionID())

	// Reopening does not bring the old progress back.
	assert.Equal(t, progression.NewState(), openProfile(t, st, "ada").State())
	assert.True(t, openProfile(t, st, "grace").State().IsCompleted(curriculum.BasicSizing))
}

func TestReset_LogsNewSession(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := context.Background()
	st := openStore(t)
	p, err := Open(ctx, Options{
		Learner:   "ada",
		Engine:    progression.New(curriculum.DefaultConfig()),
		Snapshots: st.SnapshotRepo(),
		Events:    st.EventRepo(),
		Tx:        st,
		Logger:    zap.New(core),
	})
	require.NoError(t, err)

	require.NoError(t, p.Reset(ctx))
	_, err = p.Record(ctx, "", attempt(curriculum.BasicSizing, 0.9))
	require.NoError(t, err)

	recorded := logs.FilterMessage("attempt recorded").All()
	require.Len(t, recorded, 1)
	assert.Equal(t, p.SessionID(), recorded[0].ContextMap()["session_id"])
}

func TestProfile_InMemory(t *testing.T) {
	ctx := context.Background()
	p, err := Open(ctx, Options{Learner: "ada", Engine: progression.New(curriculum.DefaultConfig())})
	require.NoError(t, err)

	_, err = p.Record(ctx, "", attempt(curriculum.BasicSizing, 0.9))
	require.NoError(t, err)
	assert.Equal(t, 1, p.State().Score(curriculum.BasicSizing).Attempts)

	events, err := p.RecentAttempts(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, events)
	require.NoError(t, p.Reset(ctx))
}

func TestOpen_RejectsNewerSnapshot(t *testing.T) {
	st := openStore(t)
	err := st.SnapshotRepo().Save(context.Background(), &store.Snapshot{
		Learner: "ada",
		Data:    store.SnapshotData{Version: snapshotVersion + 1, State: []byte(`{}`)},
	})
	require.NoError(t, err)

	_, err = Open(context.Background(), Options{
		Learner:   "ada",
		Engine:    progression.New(curriculum.DefaultConfig()),
		Snapshots: st.SnapshotRepo(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSnapshotVersion))
}

func TestSucceeded(t *testing.T) {
	p, err := Open(context.Background(), Options{
		Learner:          "ada",
		Engine:           progression.New(curriculum.DefaultConfig()),
		SuccessThreshold: 0.6,
	})
	require.NoError(t, err)
	assert.True(t, p.Succeeded(0.6))
	assert.False(t, p.Succeeded(0.59))
}
