package agent

import "github.com/ant4g0nist/morgul/internal/translate"

// toolLoopSystemPromptTemplate is the tool-loop agent's system prompt:
// tool catalogue, bridge API reference, strategy guidance, task, and the
// iteration limit.
const toolLoopSystemPromptTemplate = `You are Morgul, an autonomous debugger agent. You analyze programs by iterating through observe -> act -> extract -> reason cycles.

You have access to the following tools:
- act(instruction): Execute a natural language debugging action
- set_breakpoint(location): Set a breakpoint by name or address
- read_memory(address, size): Read memory at an address
- step(mode): Step execution (over, into, out, instruction)
- continue_execution(): Continue process execution
- evaluate(expression): Evaluate an expression via the bridge API
- done(result): Signal that you've completed the task
` + translate.BridgeAPIReference + `
## Strategy: %s
%s

## Task
%s

## Rules
- Think step by step about what information you need
- Use observe to understand the current state before acting
- Extract structured data when you need to reason about specific values
- Stop when you've gathered enough information to answer the task
- Use the target triple from the process state to determine the architecture and register names
- Maximum steps: %d
`

// replSystemPromptTemplate is the REPL agent's system prompt: task, the
// sub-query budget, and custom-tool docs (if any) are interpolated in.
const replSystemPromptTemplate = `You are Morgul, an expert debugger that writes code to analyze programs.

You have a REPL with live access to the debugger. Write code in ` + "```python" + ` blocks.
` + translate.BridgeAPIReference + `
## Sub-queries
- llm_query(prompt, timeout_seconds?) -> string — ask the model a sub-question from within your code
- Limited to %d calls per iteration — use judiciously
- llm_query_batched(prompts, timeout_seconds?) -> list of strings — concurrent sub-queries (max 5)
- Good for: interpreting disassembly, classifying data, generating hypotheses
%s
## Rules
- Write code in ` + "```python" + ` blocks — it will be executed and you'll see the output
- Variables persist across code blocks — build on previous computations
- Use print() to see values — only printed output is visible to you
- Call done("your findings summary") when finished with a string result
- Call final_value("variable_name") to return a structured variable as the result
- thread and frame auto-refresh after each block (reflects current debugger state)

## Task
%s
`

const replNudge = "Write code in a ```python block to make progress on the task."

const replWrapUp = "You are running low on iterations. Summarize your findings so far and " +
	"call done() with your results. Include what you discovered, any partial results, and " +
	"what remains unknown."

const compactionSummaryPrompt = "Summarize the debugging session so far in a few sentences: " +
	"what was investigated, what was found, and what remains open. This summary replaces the " +
	"detailed history below so be complete about anything that still matters."

// formatCustomToolsSection renders injected-tool docs for the REPL system
// prompt, mirroring the original's format_tools_section.
func formatCustomToolsSection(tools [][2]string) string {
	if len(tools) == 0 {
		return ""
	}
	out := "\n## Custom Tools\n"
	for _, pair := range tools {
		name, desc := pair[0], pair[1]
		if desc != "" {
			out += "- `" + name + "` - " + desc + "\n"
		} else {
			out += "- `" + name + "`\n"
		}
	}
	return out
}
