package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

func newTestEngine() *Engine {
	return New(curriculum.DefaultConfig())
}

// record applies n identical attempts.
func record(e *Engine, s State, cp curriculum.Checkpoint, n int, success bool, accuracy float64) State {
	for range n {
		s, _ = e.RecordAttempt(s, cp, success, accuracy)
	}
	return s
}

// master records enough perfect attempts to complete cp.
func master(t *testing.T, e *Engine, s State, cp curriculum.Checkpoint) State {
	t.Helper()
	c, ok := e.Config().Criteria(cp)
	require.True(t, ok)
	s = record(e, s, cp, c.MinAttempts, true, 1.0)
	require.True(t, s.IsCompleted(cp), "%s not mastered", cp)
	return s
}

func TestRecordAttempt_CreatesScoreLazily(t *testing.T) {
	e := newTestEngine()
	s := e.Reset()
	assert.Empty(t, s.SkillScores)

	s, out := e.RecordAttempt(s, curriculum.BasicSizing, true, 0.6)

	score := s.SkillScores[curriculum.BasicSizing]
	assert.Equal(t, 1, score.Attempts)
	assert.Equal(t, 1, score.Successes)
	assert.InDelta(t, 0.6, score.TotalAccuracy, 1e-9)
	assert.InDelta(t, 0.6, score.AverageAccuracy, 1e-9)
	assert.Equal(t, score, out.Score)
	assert.False(t, out.NewlyMastered)
}

func TestRecordAttempt_RunningAverage(t *testing.T) {
	e := newTestEngine()
	s := e.Reset()

	s, _ = e.RecordAttempt(s, curriculum.RelativeSizing, true, 1.0)
	s, _ = e.RecordAttempt(s, curriculum.RelativeSizing, false, 0.5)
	s, _ = e.RecordAttempt(s, curriculum.RelativeSizing, false, 0.0)

	score := s.Score(curriculum.RelativeSizing)
	assert.Equal(t, 3, score.Attempts)
	assert.Equal(t, 1, score.Successes)
	assert.InDelta(t, 1.5, score.TotalAccuracy, 1e-9)
	assert.InDelta(t, 0.5, score.AverageAccuracy, 1e-9)
}

func TestRecordAttempt_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine()
	before := e.Reset()
	before, _ = e.RecordAttempt(before, curriculum.BasicSizing, true, 0.9)

	after := record(e, before, curriculum.BasicSizing, 5, true, 0.9)

	assert.Equal(t, 1, before.Score(curriculum.BasicSizing).Attempts)
	assert.Empty(t, before.CompletedCheckpoints)
	assert.True(t, before.AdaptiveSettings.ShowHints)
	assert.Equal(t, 6, after.Score(curriculum.BasicSizing).Attempts)
	assert.True(t, after.IsCompleted(curriculum.BasicSizing))
}

func TestRecordAttempt_ZeroValueState(t *testing.T) {
	e := newTestEngine()
	s, _ := e.RecordAttempt(State{}, curriculum.BasicSizing, true, 1.0)
	assert.Equal(t, 1, s.Score(curriculum.BasicSizing).Attempts)
}

// Scenario A: five attempts at 0.9 master basic_sizing (0.8 / 5).
func TestScenarioA_MasteryAfterMinAttempts(t *testing.T) {
	e := newTestEngine()
	s := e.Reset()

	var out Outcome
	for i := range 5 {
		s, out = e.RecordAttempt(s, curriculum.BasicSizing, true, 0.9)
		if i < 4 {
			assert.False(t, out.NewlyMastered, "mastered early at attempt %d", i+1)
			assert.False(t, s.IsCompleted(curriculum.BasicSizing))
		}
	}

	assert.True(t, out.NewlyMastered)
	assert.Equal(t, []curriculum.Checkpoint{curriculum.BasicSizing}, s.CompletedCheckpoints)
	assert.True(t, s.AdaptiveSettings.ShowHints, "one completed checkpoint keeps hints on")
}

// Scenario B: five attempts at 0.5 leave basic_sizing incomplete and flagged.
func TestScenarioB_LowAccuracyNeedsWork(t *testing.T) {
	e := newTestEngine()
	s := record(e, e.Reset(), curriculum.BasicSizing, 5, true, 0.5)

	assert.False(t, s.IsCompleted(curriculum.BasicSizing))

	ca, ok := e.Assessment(s).Lookup(curriculum.BasicSizing)
	require.True(t, ok)
	assert.True(t, ca.NeedsWork)
	assert.False(t, ca.IsCompleted)
	assert.InDelta(t, 1.0, ca.Progress, 1e-9)
}

// Scenario C: support recedes at 2, 3 and 4 completed checkpoints.
func TestScenarioC_SupportRecedes(t *testing.T) {
	e := newTestEngine()
	s := e.Reset()

	want := []Settings{
		{ShowHints: true, AllowRetries: true, DetailedFeedback: true},
		{ShowHints: false, AllowRetries: true, DetailedFeedback: true},
		{ShowHints: false, AllowRetries: false, DetailedFeedback: true},
		{ShowHints: false, AllowRetries: false, DetailedFeedback: false},
	}
	cps := curriculum.AllCheckpoints()
	for i, w := range want {
		s = master(t, e, s, cps[i])
		assert.Equal(t, w, s.AdaptiveSettings, "after %d checkpoints", i+1)
	}
}

func TestRecordAttempt_MasteryIsOneWay(t *testing.T) {
	e := newTestEngine()
	s := master(t, e, e.Reset(), curriculum.BasicSizing)

	// Drag the average far below the requirement.
	s = record(e, s, curriculum.BasicSizing, 20, false, 0.0)

	assert.True(t, s.IsCompleted(curriculum.BasicSizing))
	assert.Equal(t, 1, s.CompletedCount(), "checkpoint must not be added twice")
}

func TestRecordAttempt_MinAttemptsGate(t *testing.T) {
	e := newTestEngine()
	// Perfect accuracy is not enough before story_breakdown's 3 attempts.
	s := record(e, e.Reset(), curriculum.StoryBreakdown, 2, true, 1.0)
	assert.False(t, s.IsCompleted(curriculum.StoryBreakdown))

	s, out := e.RecordAttempt(s, curriculum.StoryBreakdown, true, 1.0)
	assert.True(t, out.NewlyMastered)
	assert.True(t, s.IsCompleted(curriculum.StoryBreakdown))
}

func TestRecordAttempt_AccuracyExactlyAtThreshold(t *testing.T) {
	e := newTestEngine()
	// relative_sizing requires 0.75 over 4 attempts.
	s := record(e, e.Reset(), curriculum.RelativeSizing, 4, false, 0.75)
	assert.True(t, s.IsCompleted(curriculum.RelativeSizing))
}

func TestRecordAttempt_LateRecovery(t *testing.T) {
	e := newTestEngine()
	// Poor start, then enough good attempts to lift the average over 0.8.
	s := record(e, e.Reset(), curriculum.BasicSizing, 2, false, 0.4)
	s = record(e, s, curriculum.BasicSizing, 3, true, 1.0)
	assert.False(t, s.IsCompleted(curriculum.BasicSizing), "average 0.76 is below 0.8")

	s = record(e, s, curriculum.BasicSizing, 2, true, 1.0)
	assert.True(t, s.IsCompleted(curriculum.BasicSizing), "average 0.83 meets 0.8")
}

func TestRecordAttempt_UnconfiguredCheckpoint(t *testing.T) {
	e := newTestEngine()
	s := record(e, e.Reset(), "mind_reading", 10, true, 1.0)
	assert.Equal(t, 10, s.Score("mind_reading").Attempts)
	assert.Empty(t, s.CompletedCheckpoints)
}

func TestRecordAttempt_MonotonicMastery(t *testing.T) {
	e := newTestEngine()
	s := e.Reset()
	cps := curriculum.AllCheckpoints()
	accuracies := []float64{1.0, 0.2, 0.9, 0.0, 0.75, 1.0, 0.5}

	prev := 0
	for i := range 200 {
		cp := cps[i%len(cps)]
		acc := accuracies[i%len(accuracies)]
		s, _ = e.RecordAttempt(s, cp, acc >= 0.5, acc)
		require.GreaterOrEqual(t, s.CompletedCount(), prev, "completed set shrank at step %d", i)
		require.Equal(t, DeriveSettings(s.CompletedCount()), s.AdaptiveSettings)
		prev = s.CompletedCount()
	}
}

func TestCurrentTier_Thresholds(t *testing.T) {
	tests := []struct {
		completed int
		want      curriculum.Tier
	}{
		{0, curriculum.TierFoundation},
		{1, curriculum.TierIntermediate},
		{2, curriculum.TierIntermediate},
		{3, curriculum.TierAdvanced},
		{4, curriculum.TierExpert},
		{5, curriculum.TierExpert},
		{6, curriculum.TierExpert},
	}
	for _, tt := range tests {
		s := State{CompletedCheckpoints: curriculum.AllCheckpoints()[:tt.completed]}
		assert.Equal(t, tt.want, CurrentTier(s), "completed=%d", tt.completed)
		assert.Equal(t, tt.want, TierForCount(tt.completed))
	}
}

func TestCurrentTier_NonDecreasing(t *testing.T) {
	prev := TierForCount(0)
	for n := 1; n <= 10; n++ {
		tier := TierForCount(n)
		assert.GreaterOrEqual(t, tier, prev, "tier dropped at %d", n)
		prev = tier
	}
}

func TestDeriveSettings(t *testing.T) {
	tests := []struct {
		n    int
		want Settings
	}{
		{0, Settings{ShowHints: true, AllowRetries: true, DetailedFeedback: true}},
		{1, Settings{ShowHints: true, AllowRetries: true, DetailedFeedback: true}},
		{2, Settings{ShowHints: false, AllowRetries: true, DetailedFeedback: true}},
		{3, Settings{ShowHints: false, AllowRetries: false, DetailedFeedback: true}},
		{4, Settings{ShowHints: false, AllowRetries: false, DetailedFeedback: false}},
		{9, Settings{ShowHints: false, AllowRetries: false, DetailedFeedback: false}},
	}
	for _, tt := range tests {
		got := DeriveSettings(tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
		assert.Equal(t, got, DeriveSettings(tt.n), "n=%d not stable", tt.n)
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine()
	s := master(t, e, e.Reset(), curriculum.BasicSizing)
	require.NotEmpty(t, s.CompletedCheckpoints)

	fresh := e.Reset()
	assert.Empty(t, fresh.CompletedCheckpoints)
	assert.Empty(t, fresh.SkillScores)
	assert.Equal(t, DeriveSettings(0), fresh.AdaptiveSettings)
	assert.Equal(t, NewState(), fresh)
}

func TestIncomplete_DeclarationOrder(t *testing.T) {
	e := newTestEngine()
	s := master(t, e, e.Reset(), curriculum.ComplexityFactors)
	s = master(t, e, s, curriculum.BasicSizing)

	assert.Equal(t, []curriculum.Checkpoint{
		curriculum.RelativeSizing,
		curriculum.UncertaintyHandling,
		curriculum.StoryBreakdown,
		curriculum.TeamEstimation,
	}, e.Incomplete(s))
}

func TestEngine_CustomCriteria(t *testing.T) {
	attempts := 1
	cfg, err := curriculum.NewConfig(curriculum.Override{Checkpoint: curriculum.BasicSizing, MinAttempts: &attempts})
	require.NoError(t, err)
	e := New(cfg)

	s, out := e.RecordAttempt(e.Reset(), curriculum.BasicSizing, true, 0.95)
	assert.True(t, out.NewlyMastered)
	assert.True(t, s.IsCompleted(curriculum.BasicSizing))
}

func TestEngine_RecommendUsesConfiguredOrder(t *testing.T) {
	e := newTestEngine()
	exercises := []content.Exercise{
		{ID: "pairs", Type: curriculum.ExerciseRelativeSizing},
		{ID: "shapes", Type: curriculum.ExerciseAbstractComparison},
	}
	got, ok := e.Recommend(exercises, e.Reset())
	require.True(t, ok)
	assert.Equal(t, "shapes", got.ID)
}
