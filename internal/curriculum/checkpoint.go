package curriculum

// Checkpoint names a trackable estimation skill.
type Checkpoint string

const (
	BasicSizing         Checkpoint = "basic_sizing"
	RelativeSizing      Checkpoint = "relative_sizing"
	ComplexityFactors   Checkpoint = "complexity_factors"
	UncertaintyHandling Checkpoint = "uncertainty_handling"
	StoryBreakdown      Checkpoint = "story_breakdown"
	TeamEstimation      Checkpoint = "team_estimation"
)

// AllCheckpoints returns every checkpoint in declaration order. The order is
// the tie-break for recommendations and the "next checkpoint" in summaries.
func AllCheckpoints() []Checkpoint {
	return []Checkpoint{
		BasicSizing,
		RelativeSizing,
		ComplexityFactors,
		UncertaintyHandling,
		StoryBreakdown,
		TeamEstimation,
	}
}

// Known reports whether c is one of the declared checkpoints.
func (c Checkpoint) Known() bool {
	for _, cp := range AllCheckpoints() {
		if cp == c {
			return true
		}
	}
	return false
}

// Criteria holds the mastery requirements for a checkpoint.
type Criteria struct {
	Checkpoint       Checkpoint
	Name             string
	Description      string
	RequiredAccuracy float64 // Average accuracy needed, 0..1
	MinAttempts      int     // Attempts needed before mastery can be granted
}

// DefaultCriteria returns the built-in criteria table in declaration order.
func DefaultCriteria() []Criteria {
	return []Criteria{
		{
			Checkpoint:       BasicSizing,
			Name:             "Basic Sizing",
			Description:      "Order abstract items by size without reaching for hours or days",
			RequiredAccuracy: 0.8,
			MinAttempts:      5,
		},
		{
			Checkpoint:       RelativeSizing,
			Name:             "Relative Sizing",
			Description:      "Size stories against a reference story on the Fibonacci scale",
			RequiredAccuracy: 0.75,
			MinAttempts:      4,
		},
		{
			Checkpoint:       ComplexityFactors,
			Name:             "Complexity Factors",
			Description:      "Weigh technical and business complexity when sizing",
			RequiredAccuracy: 0.75,
			MinAttempts:      4,
		},
		{
			Checkpoint:       UncertaintyHandling,
			Name:             "Handling Uncertainty",
			Description:      "Account for unknowns and risk in an estimate",
			RequiredAccuracy: 0.7,
			MinAttempts:      3,
		},
		{
			Checkpoint:       StoryBreakdown,
			Name:             "Story Breakdown",
			Description:      "Split oversized stories into independently estimable slices",
			RequiredAccuracy: 0.7,
			MinAttempts:      3,
		},
		{
			Checkpoint:       TeamEstimation,
			Name:             "Team Estimation",
			Description:      "Converge on a shared estimate when team members disagree",
			RequiredAccuracy: 0.7,
			MinAttempts:      3,
		},
	}
}
