package coach

// Config holds generation settings.
type Config struct {
	HintMaxTokens     int
	FeedbackMaxTokens int
	Temperature       float64
}

// DefaultConfig returns the defaults for hint and feedback generation.
func DefaultConfig() Config {
	return Config{
		HintMaxTokens:     256,
		FeedbackMaxTokens: 512,
		Temperature:       0.4,
	}
}
