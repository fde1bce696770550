package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Long polling timeout in seconds
	UpdateTimeout int
	// Base deadline for building a quiz
	GenerationTimeout time.Duration
	// Extra generation time per word, matching the distractor provider timeout
	WordTimeout time.Duration
	// Answer buttons per keyboard row
	OptionsPerRow int
	// Topics listed in the mastery report
	ReportTopics int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout:     60,
		GenerationTimeout: 30 * time.Second,
		WordTimeout:       15 * time.Second,
		OptionsPerRow:     2,
		ReportTopics:      5,
	}
}

// generationTimeout is the deadline for generating a quiz over the given number of words
func (c *BotConfig) generationTimeout(words int) time.Duration {
	return c.GenerationTimeout + time.Duration(words)*c.WordTimeout
}
