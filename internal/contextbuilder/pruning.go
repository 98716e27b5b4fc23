package contextbuilder

import (
	"encoding/json"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// DefaultTokenBudget is used when a caller doesn't configure one.
const DefaultTokenBudget = 4000

const disassemblyTruncateChars = 500
const disassemblyTruncateMarker = "\n...[truncated]"

// EstimateTokens approximates a snapshot's token footprint as its
// serialized length divided by 4, the same rough heuristic used to budget
// chat history.
func EstimateTokens(snap models.ProcessSnapshot) int {
	b, err := json.Marshal(snap)
	if err != nil {
		return 0
	}
	return len(b) / 4
}

// Prune reduces snap until its estimated token footprint fits budget, or
// until every reduction step has been applied. Reductions are monotone
// non-increasing in token count and applied in a fixed order, stopping at
// the first step whose output is within budget:
//
//  1. drop memory regions
//  2. trim modules to 10
//  3. trim stack frames to 10
//  4. truncate disassembly to 500 chars with a marker
//  5. trim variables to 10
func Prune(snap models.ProcessSnapshot, budget int) models.ProcessSnapshot {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	if EstimateTokens(snap) <= budget {
		return snap
	}

	if len(snap.MemoryRegions) > 0 {
		snap.MemoryRegions = nil
		if EstimateTokens(snap) <= budget {
			return snap
		}
	}

	if len(snap.Modules) > 10 {
		snap.Modules = snap.Modules[:10]
		if EstimateTokens(snap) <= budget {
			return snap
		}
	}

	if len(snap.StackTrace) > 10 {
		snap.StackTrace = snap.StackTrace[:10]
		if EstimateTokens(snap) <= budget {
			return snap
		}
	}

	if len(snap.Disassembly) > disassemblyTruncateChars {
		snap.Disassembly = snap.Disassembly[:disassemblyTruncateChars] + disassemblyTruncateMarker
		snap.Truncated = true
		if EstimateTokens(snap) <= budget {
			return snap
		}
	}

	if len(snap.Variables) > 10 {
		snap.Variables = snap.Variables[:10]
		snap.Truncated = true
	}

	return snap
}
