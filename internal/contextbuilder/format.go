package contextbuilder

import (
	"fmt"
	"strings"

	"github.com/ant4g0nist/morgul/pkg/models"
)

// callingConventionHints maps an architecture keyword (found as a substring
// of the target triple) to the register names holding the first arguments,
// in order. x86 is omitted deliberately: its arguments are stack-passed and
// there is no fixed register hint to show.
var callingConventionHints = map[string][]string{
	"arm64":   {"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"},
	"aarch64": {"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"},
	"x86_64":  {"rdi", "rsi", "rdx", "rcx", "r8", "r9"},
	"amd64":   {"rdi", "rsi", "rdx", "rcx", "r8", "r9"},
}

// FormatForPrompt renders snap as the plaintext block embedded in act,
// observe, and extract prompts.
func FormatForPrompt(snap models.ProcessSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "target: %s\n", orDash(snap.TargetTriple))
	if hint := callingConventionHint(snap.TargetTriple); hint != "" {
		fmt.Fprintf(&b, "calling convention (args): %s\n", hint)
	}
	fmt.Fprintf(&b, "process state: %s\n", orDash(snap.ProcessState))
	fmt.Fprintf(&b, "stop reason: %s\n", orDash(snap.StopReason))
	fmt.Fprintf(&b, "pc: 0x%x\n", snap.PC)

	if len(snap.Registers) > 0 {
		b.WriteString("\nregisters:\n")
		for _, r := range snap.Registers {
			fmt.Fprintf(&b, "  %s = 0x%x\n", r.Name, r.Value)
		}
	}

	if len(snap.StackTrace) > 0 {
		b.WriteString("\nstack trace:\n")
		for _, f := range snap.StackTrace {
			fmt.Fprintf(&b, "  #%d %s (%s) %s:%d\n", f.Index, orDash(f.Function), orDash(f.Module), orDash(f.SourceFile), f.SourceLine)
		}
	}

	if snap.Disassembly != "" {
		fmt.Fprintf(&b, "\ndisassembly:\n%s\n", snap.Disassembly)
	}

	if len(snap.Variables) > 0 {
		b.WriteString("\nvariables:\n")
		for _, v := range snap.Variables {
			writeVariable(&b, v, 1)
		}
	}

	if len(snap.Modules) > 0 {
		b.WriteString("\nmodules:\n")
		for _, m := range snap.Modules {
			fmt.Fprintf(&b, "  %s @ 0x%x (%s)\n", m.Name, m.Base, orDash(m.Path))
		}
	}

	if snap.Truncated {
		b.WriteString("\n[snapshot truncated to fit context budget]\n")
	}

	return b.String()
}

func writeVariable(b *strings.Builder, v models.Variable, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(b, "%s%s: %s = %s\n", prefix, v.Name, orDash(v.Type), v.Value)
	for _, child := range v.Children {
		writeVariable(b, child, indent+1)
	}
}

func callingConventionHint(triple string) string {
	lower := strings.ToLower(triple)
	for arch, regs := range callingConventionHints {
		if strings.Contains(lower, arch) {
			return strings.Join(regs, ",")
		}
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
