package progression

import (
	"encoding/json"
	"fmt"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// Marshal serializes a state for the host to persist.
func Marshal(s State) ([]byte, error) {
	b, err := json.Marshal(s.Clone())
	if err != nil {
		return nil, fmt.Errorf("marshal progression state: %w", err)
	}
	return b, nil
}

// Restore parses a state produced by Marshal. Unknown and duplicate
// completed checkpoints are dropped and the support settings are re-derived
// from the completed count, so a restored state always satisfies the
// engine's invariants.
func Restore(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("unmarshal progression state: %w", err)
	}

	seen := make(map[curriculum.Checkpoint]bool, len(s.CompletedCheckpoints))
	completed := make([]curriculum.Checkpoint, 0, len(s.CompletedCheckpoints))
	for _, cp := range s.CompletedCheckpoints {
		if seen[cp] || !cp.Known() {
			continue
		}
		seen[cp] = true
		completed = append(completed, cp)
	}
	s.CompletedCheckpoints = completed

	if s.SkillScores == nil {
		s.SkillScores = make(map[curriculum.Checkpoint]SkillScore)
	}
	s.AdaptiveSettings = DeriveSettings(len(s.CompletedCheckpoints))
	return s, nil
}
