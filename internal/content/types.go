package content

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// Level is a qualitative factor rating. The empty value reads as LevelLow.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Normalize maps empty and unrecognised levels to LevelLow.
func (l Level) Normalize() Level {
	switch l {
	case LevelMedium, LevelHigh:
		return l
	default:
		return LevelLow
	}
}

// Complexity holds the difficulty-relevant factors of a story.
type Complexity struct {
	Technical   Level `json:"technical,omitempty"`
	Business    Level `json:"business,omitempty"`
	Uncertainty Level `json:"uncertainty,omitempty"`
}

// Item is a user story used as exercise material.
type Item struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Points            int        `json:"points,omitempty"` // Reference answer on the Fibonacci scale
	Complexity        Complexity `json:"complexity"`
	RequiresBreakdown bool       `json:"requiresBreakdown,omitempty"`

	// TeamVariance maps team member to their estimate. More than one entry
	// means the team disagreed about the story.
	TeamVariance map[string]int `json:"teamVariance,omitempty"`
}

// Ambiguous reports whether the team produced more than one estimate.
func (i Item) Ambiguous() bool {
	return len(i.TeamVariance) > 1
}

// TeamEstimates renders the team's estimates as "member=points" pairs in
// member order.
func (i Item) TeamEstimates() string {
	members := make([]string, 0, len(i.TeamVariance))
	for m := range i.TeamVariance {
		members = append(members, m)
	}
	slices.Sort(members)
	parts := make([]string, len(members))
	for n, m := range members {
		parts[n] = fmt.Sprintf("%s=%d", m, i.TeamVariance[m])
	}
	return strings.Join(parts, ", ")
}

// Exercise is a single training activity over one or more stories.
type Exercise struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Type         curriculum.ExerciseType `json:"type"`
	Instructions string                  `json:"instructions,omitempty"`
	Stories      []string                `json:"stories,omitempty"`
}

// Targets returns the checkpoints this exercise trains.
func (e Exercise) Targets() []curriculum.Checkpoint {
	return curriculum.Targets(e.Type)
}
