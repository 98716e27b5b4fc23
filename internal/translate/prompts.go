// Package translate turns a natural-language instruction plus the current
// process state into something actionable: Python-flavored code for act(),
// ranked suggestions for observe(), or schema-validated data for extract().
// Neither observe nor extract executes anything themselves.
package translate

// BridgeAPIReference documents the namespace act() and observe() code can
// rely on. Shared across prompts (and with internal/agent, for its own
// system prompts) so the model sees a consistent API surface regardless of
// which primitive it's serving.
const BridgeAPIReference = `
## Bridge API Reference

### Live Objects
- ` + "`process`" + ` — .read_memory(addr, size), .threads, .selected_thread, .state, .pid
- ` + "`thread`" + ` — current thread: .get_frames(), .selected_frame, .step_over(), .step_into()
- ` + "`frame`" + ` — current frame: .variables(), .evaluate_expression(expr), .disassemble(), .registers, .pc, .function_name
- ` + "`target`" + ` — .breakpoint_create_by_name(name), .breakpoint_create_by_address(addr), .modules, .find_functions(name), .triple
- ` + "`debugger`" + ` — .execute_command(cmd) for raw CLI commands when needed

### Memory Utilities
- read_string(process, addr), read_pointer(process, addr)
- read_uint8/16/32/64(process, addr)
- search_memory(process, start, size, pattern)

### Standard Library
- struct_pack_uint16/32/64(v), struct_unpack_uint16/32/64(bytes) — binary struct packing
- to_hex(bytes), from_hex(s) — binary-to-hex conversion
- json_parse(s), json_stringify(v)
- regex_match(pattern, s), regex_find_all(pattern, s)
- sorted(list), unique(list) — collection helpers
- abs(x), min(a, b), max(a, b)

### Tips
- Variables persist across act() calls within a session
- Use print() to produce output — only printed output is captured
- thread and frame auto-refresh after each execution
- Prefer the bridge API over debugger.execute_command() when possible
`

const actPromptTemplate = `You are an expert debugger assistant. Given a natural language instruction and the current process state, write code to accomplish the task using the bridge API.

## Current Process State
%s

## Instruction
%s
` + BridgeAPIReference + `
## Rules
- Write code that uses the bridge API objects (process, thread, frame, target, debugger)
- Use print() to produce output — only printed output is captured
- Variables persist across act() calls within a session
- Use the process state to determine the architecture and correct register names
- If the instruction is ambiguous, choose the most likely interpretation
- Prefer the bridge API over debugger.execute_command() when possible

## Response Format
Return a JSON object with:
- "code": the code string to execute
- "reasoning": brief explanation of the approach
`

const extractPromptTemplate = `You are an expert debugger assistant. Given the current process state and an instruction, extract the requested structured information.

## Current Process State
%s

## Instruction
%s

## Schema
The response must conform to this JSON schema:
%s

## Rules
- Extract information directly from the provided process state
- If information is not available in the state, use reasonable defaults or null values
- Be precise with addresses and numeric values
- Return valid JSON matching the schema exactly
`

const observePromptTemplate = `You are an expert debugger assistant. Analyze the current process state and suggest useful debugging actions the user might want to take.

## Current Process State
%s

%s
` + BridgeAPIReference + `
## Rules
- Suggest 3-8 relevant debugging actions ranked by usefulness
- Consider the current stop reason and program counter
- Suggest actions that would help understand the current state
- Include a mix of: inspection (registers, memory, variables), navigation (step, continue)

## Response Format
Return a JSON object with "description" and "actions" (each an object with "command" or "code", and "description").
`
