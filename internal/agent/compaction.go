package agent

import (
	"context"
	"fmt"

	"github.com/ant4g0nist/morgul/internal/llm"
	"github.com/ant4g0nist/morgul/pkg/models"
)

// CompactionConfig configures when and how REPL history is compacted.
type CompactionConfig struct {
	// ThresholdFraction is the fraction (0-1) of ContextWindow that
	// triggers compaction. Default 0.75.
	ThresholdFraction float64
	// ContextWindow is the model's context window size in tokens, used as
	// the compaction threshold's denominator. Defaults to 128000 when zero.
	ContextWindow int
	// KeepTail is how many of the most recent messages survive compaction
	// verbatim, in addition to the system prompt. Default 4.
	KeepTail int
}

// DefaultCompactionConfig returns the spec's default thresholds.
func DefaultCompactionConfig() CompactionConfig {
	return CompactionConfig{ThresholdFraction: 0.75, ContextWindow: 128000, KeepTail: 4}
}

func (c CompactionConfig) normalized() CompactionConfig {
	if c.ThresholdFraction <= 0 {
		c.ThresholdFraction = 0.75
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = 128000
	}
	if c.KeepTail <= 0 {
		c.KeepTail = 4
	}
	return c
}

// estimateHistoryTokens approximates token count as serialized length / 4,
// the same rule of thumb internal/contextbuilder uses for snapshots.
func estimateHistoryTokens(messages []models.ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content)
	}
	return total / 4
}

// needsCompaction reports whether history's estimated size has crossed
// config's threshold.
func needsCompaction(messages []models.ChatMessage, config CompactionConfig) bool {
	config = config.normalized()
	threshold := int(float64(config.ContextWindow) * config.ThresholdFraction)
	return estimateHistoryTokens(messages) > threshold
}

// compactHistory replaces every message between the system prompt and the
// last KeepTail messages with one compacted message summarizing the
// removed span, obtained via a one-off chat call. System and tail messages
// are preserved verbatim.
func compactHistory(ctx context.Context, provider llm.Provider, messages []models.ChatMessage, config CompactionConfig) ([]models.ChatMessage, error) {
	config = config.normalized()
	if len(messages) == 0 || messages[0].Role != models.RoleSystem {
		return messages, nil
	}
	tailStart := len(messages) - config.KeepTail
	if tailStart <= 1 {
		return messages, nil // nothing between system prompt and tail to drop
	}

	removed := messages[1:tailStart]
	var transcript string
	for _, m := range removed {
		transcript += fmt.Sprintf("[%s] %s\n", m.Role, m.Content)
	}

	summaryReq := llm.ChatRequest{Messages: []models.ChatMessage{
		{Role: models.RoleUser, Content: compactionSummaryPrompt + "\n\n" + transcript},
	}}
	resp, err := provider.Chat(ctx, summaryReq)
	if err != nil {
		return nil, fmt.Errorf("agent: compaction summary call failed: %w", err)
	}

	compacted := make([]models.ChatMessage, 0, 2+config.KeepTail)
	compacted = append(compacted, messages[0])
	compacted = append(compacted, models.ChatMessage{Role: models.RoleUser, Content: "Summary of earlier session history:\n" + resp.Content})
	compacted = append(compacted, messages[tailStart:]...)
	return compacted, nil
}
