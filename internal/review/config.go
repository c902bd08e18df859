package review

import "time"

// Config holds reviewer settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single review, retries included. Zero means no
	// limit beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for week reviews.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.2,
		Timeout:     30 * time.Second,
	}
}
