package curriculum

import "fmt"

// Tier represents a difficulty tier. Tiers are ordered: a higher value is harder.
type Tier int

const (
	TierFoundation   Tier = iota // Abstract comparisons and single-factor sizing
	TierIntermediate             // Relative sizing of real stories with some ambiguity
	TierAdvanced                 // Breakdown and high-complexity stories
	TierExpert                   // Team estimation under uncertainty
)

// AllTiers returns all tiers in ascending order.
func AllTiers() []Tier {
	return []Tier{TierFoundation, TierIntermediate, TierAdvanced, TierExpert}
}

// Stretch returns the tier one step above t, saturating at TierExpert.
func (t Tier) Stretch() Tier {
	if t >= TierExpert {
		return TierExpert
	}
	return t + 1
}

// String returns the lower-case name of the tier.
func (t Tier) String() string {
	switch t {
	case TierFoundation:
		return "foundation"
	case TierIntermediate:
		return "intermediate"
	case TierAdvanced:
		return "advanced"
	case TierExpert:
		return "expert"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Label returns the display label for a tier.
func (t Tier) Label() string {
	switch t {
	case TierFoundation:
		return "Foundation"
	case TierIntermediate:
		return "Intermediate"
	case TierAdvanced:
		return "Advanced"
	case TierExpert:
		return "Expert"
	default:
		return "Unknown"
	}
}

// ParseTier parses a tier name as produced by String.
func ParseTier(s string) (Tier, error) {
	for _, t := range AllTiers() {
		if t.String() == s {
			return t, nil
		}
	}
	return TierFoundation, fmt.Errorf("unknown tier %q: must be foundation, intermediate, advanced or expert", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
