package curriculum

import "slices"

// Override replaces selected criteria values for one checkpoint. Zero values
// leave the default in place.
type Override struct {
	Checkpoint       Checkpoint `yaml:"id" json:"id"`
	RequiredAccuracy *float64   `yaml:"required_accuracy,omitempty" json:"required_accuracy,omitempty"`
	MinAttempts      *int       `yaml:"min_attempts,omitempty" json:"min_attempts,omitempty"`
}

// Config is the immutable set of checkpoint criteria an engine evaluates
// against, kept in checkpoint declaration order.
type Config struct {
	criteria []Criteria
	index    map[Checkpoint]int
}

// DefaultConfig returns the built-in criteria. It panics if the built-in
// table is invalid, which is caught by the package tests.
func DefaultConfig() Config {
	cfg, err := NewConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// NewConfig builds a Config from the default criteria with the given
// overrides applied, and validates the result.
func NewConfig(overrides ...Override) (Config, error) {
	criteria := DefaultCriteria()
	if err := validateOverrides(overrides); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		for i := range criteria {
			if criteria[i].Checkpoint != o.Checkpoint {
				continue
			}
			if o.RequiredAccuracy != nil {
				criteria[i].RequiredAccuracy = *o.RequiredAccuracy
			}
			if o.MinAttempts != nil {
				criteria[i].MinAttempts = *o.MinAttempts
			}
		}
	}
	return newConfig(criteria)
}

// newConfig validates criteria and indexes them. The criteria slice is owned
// by the returned Config.
func newConfig(criteria []Criteria) (Config, error) {
	if err := validateCriteria(criteria); err != nil {
		return Config{}, err
	}
	idx := make(map[Checkpoint]int, len(criteria))
	for i, c := range criteria {
		idx[c.Checkpoint] = i
	}
	return Config{criteria: criteria, index: idx}, nil
}

// Checkpoints returns the configured checkpoints in declaration order.
func (c Config) Checkpoints() []Checkpoint {
	out := make([]Checkpoint, len(c.criteria))
	for i, cr := range c.criteria {
		out[i] = cr.Checkpoint
	}
	return out
}

// Criteria returns the criteria for a checkpoint.
func (c Config) Criteria(cp Checkpoint) (Criteria, bool) {
	i, ok := c.index[cp]
	if !ok {
		return Criteria{}, false
	}
	return c.criteria[i], true
}

// All returns a copy of every configured criteria entry in declaration order.
func (c Config) All() []Criteria {
	return slices.Clone(c.criteria)
}

// Len returns the number of configured checkpoints.
func (c Config) Len() int {
	return len(c.criteria)
}

// Name returns the display name of a checkpoint, falling back to its id.
func (c Config) Name(cp Checkpoint) string {
	if cr, ok := c.Criteria(cp); ok {
		return cr.Name
	}
	return string(cp)
}
