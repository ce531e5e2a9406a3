package curriculum

import "slices"

// ExerciseType identifies the kind of exercise. The set is closed: every
// declared type has exactly one entry in the exercise table.
type ExerciseType string

const (
	ExerciseAbstractComparison      ExerciseType = "abstract_comparison"
	ExerciseReferenceSizing         ExerciseType = "reference_sizing"
	ExerciseRelativeSizing          ExerciseType = "relative_sizing"
	ExerciseComplexityAssessment    ExerciseType = "complexity_assessment"
	ExerciseUncertaintyEstimation   ExerciseType = "uncertainty_estimation"
	ExerciseStoryBreakdown          ExerciseType = "story_breakdown"
	ExerciseCollaborativeEstimation ExerciseType = "collaborative_estimation"
)

// DefaultExerciseTier is the tier assigned to exercise types missing from the table.
const DefaultExerciseTier = TierIntermediate

// ExerciseProfile describes how an exercise type is classified and which
// checkpoints it trains.
type ExerciseProfile struct {
	Type    ExerciseType
	Tier    Tier
	Targets []Checkpoint
}

var exerciseTable = []ExerciseProfile{
	{Type: ExerciseAbstractComparison, Tier: TierFoundation, Targets: []Checkpoint{BasicSizing}},
	{Type: ExerciseReferenceSizing, Tier: TierFoundation, Targets: []Checkpoint{BasicSizing, RelativeSizing}},
	{Type: ExerciseRelativeSizing, Tier: TierIntermediate, Targets: []Checkpoint{RelativeSizing}},
	{Type: ExerciseComplexityAssessment, Tier: TierIntermediate, Targets: []Checkpoint{ComplexityFactors}},
	{Type: ExerciseUncertaintyEstimation, Tier: TierAdvanced, Targets: []Checkpoint{UncertaintyHandling}},
	{Type: ExerciseStoryBreakdown, Tier: TierAdvanced, Targets: []Checkpoint{StoryBreakdown}},
	{Type: ExerciseCollaborativeEstimation, Tier: TierExpert, Targets: []Checkpoint{TeamEstimation, UncertaintyHandling}},
}

// exerciseIndex is built once from exerciseTable.
var exerciseIndex = func() map[ExerciseType]ExerciseProfile {
	idx := make(map[ExerciseType]ExerciseProfile, len(exerciseTable))
	for _, p := range exerciseTable {
		idx[p.Type] = p
	}
	return idx
}()

// AllExerciseTypes returns every declared exercise type in table order.
func AllExerciseTypes() []ExerciseType {
	out := make([]ExerciseType, len(exerciseTable))
	for i, p := range exerciseTable {
		out[i] = p.Type
	}
	return out
}

// Known reports whether t has an entry in the exercise table.
func (t ExerciseType) Known() bool {
	_, ok := exerciseIndex[t]
	return ok
}

// Profile returns the table entry for t.
func (t ExerciseType) Profile() (ExerciseProfile, bool) {
	p, ok := exerciseIndex[t]
	if !ok {
		return ExerciseProfile{}, false
	}
	p.Targets = slices.Clone(p.Targets)
	return p, true
}

// ExerciseTier returns the tier of an exercise type, or DefaultExerciseTier
// for unknown types.
func ExerciseTier(t ExerciseType) Tier {
	if p, ok := exerciseIndex[t]; ok {
		return p.Tier
	}
	return DefaultExerciseTier
}

// Targets returns the checkpoints an exercise type trains. Unknown types
// target nothing.
func Targets(t ExerciseType) []Checkpoint {
	if p, ok := exerciseIndex[t]; ok {
		return slices.Clone(p.Targets)
	}
	return nil
}

// TargetsCheckpoint reports whether exercises of type t train checkpoint c.
func TargetsCheckpoint(t ExerciseType, c Checkpoint) bool {
	p, ok := exerciseIndex[t]
	return ok && slices.Contains(p.Targets, c)
}
