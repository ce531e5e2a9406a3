package curriculum

import (
	"fmt"
	"strings"
)

// validateCriteria performs all structural checks on a criteria table.
// Returns a combined error describing all problems found, or nil if valid.
func validateCriteria(criteria []Criteria) error {
	var errs []string

	if len(criteria) == 0 {
		errs = append(errs, "no checkpoints configured")
	}

	seen := make(map[Checkpoint]bool, len(criteria))
	for _, c := range criteria {
		if seen[c.Checkpoint] {
			errs = append(errs, fmt.Sprintf("duplicate checkpoint: %q", c.Checkpoint))
		}
		seen[c.Checkpoint] = true

		if !c.Checkpoint.Known() {
			errs = append(errs, fmt.Sprintf("unknown checkpoint: %q", c.Checkpoint))
		}
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("checkpoint %q: name is required", c.Checkpoint))
		}
		if c.RequiredAccuracy < 0 || c.RequiredAccuracy > 1.0 {
			errs = append(errs, fmt.Sprintf("checkpoint %q: RequiredAccuracy must be in [0, 1.0], got %f", c.Checkpoint, c.RequiredAccuracy))
		}
		if c.MinAttempts <= 0 {
			errs = append(errs, fmt.Sprintf("checkpoint %q: MinAttempts must be > 0, got %d", c.Checkpoint, c.MinAttempts))
		}
	}

	// Exercise targets must point at declared checkpoints.
	for _, p := range exerciseTable {
		for _, cp := range p.Targets {
			if !cp.Known() {
				errs = append(errs, fmt.Sprintf("exercise type %q targets unknown checkpoint %q", p.Type, cp))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("checkpoint criteria validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateOverrides(overrides []Override) error {
	var errs []string
	seen := make(map[Checkpoint]bool, len(overrides))
	for _, o := range overrides {
		if !o.Checkpoint.Known() {
			errs = append(errs, fmt.Sprintf("override references unknown checkpoint %q", o.Checkpoint))
		}
		if seen[o.Checkpoint] {
			errs = append(errs, fmt.Sprintf("checkpoint %q overridden more than once", o.Checkpoint))
		}
		seen[o.Checkpoint] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("checkpoint overrides invalid:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
