package agent

// Strategy selects the system-prompt guidance the tool-loop agent receives.
type Strategy string

const (
	StrategyDepthFirst       Strategy = "depth-first"
	StrategyBreadthFirst     Strategy = "breadth-first"
	StrategyHypothesisDriven Strategy = "hypothesis-driven"
)

var strategyDescriptions = map[Strategy]string{
	StrategyDepthFirst: "Follow the most promising lead as deeply as possible before " +
		"backtracking. Prefer one focused line of investigation over surveying everything.",
	StrategyBreadthFirst: "Survey the landscape first — check the obvious places " +
		"(entry point, recently-called functions, suspicious strings) before committing to " +
		"any one theory.",
	StrategyHypothesisDriven: "Form an explicit hypothesis about what's wrong, then design " +
		"steps that would confirm or refute it. State the hypothesis before acting on it.",
}

// StrategyDescription returns the guidance text for strategy, defaulting to
// depth-first for an unrecognized value.
func StrategyDescription(strategy Strategy) string {
	if desc, ok := strategyDescriptions[strategy]; ok {
		return desc
	}
	return strategyDescriptions[StrategyDepthFirst]
}
