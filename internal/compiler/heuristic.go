package compiler

import (
	"context"
	"fmt"
)

// HeuristicChecker approximates a compile check with a lexical scan:
// delimiter balance outside strings and comments. It never launches a
// process, so it can run where no toolchain is installed, at the cost of
// false verdicts relative to real compilation.
type HeuristicChecker struct{}

func NewHeuristicChecker() *HeuristicChecker { return &HeuristicChecker{} }

func (HeuristicChecker) Probe(context.Context) (string, error) {
	return "heuristic (lexical, no toolchain)", nil
}

func (HeuristicChecker) Check(_ context.Context, source string) (CheckResult, error) {
	if diag := scanDelimiters(source); diag != "" {
		return CheckResult{Valid: false, Diagnostic: diag}, nil
	}
	return CheckResult{Valid: true}, nil
}

type openDelim struct {
	ch   byte
	line int
}

var closingFor = map[byte]byte{'{': '}', '(': ')', '[': ']'}

// scanDelimiters returns an empty string when the source looks balanced,
// otherwise a diagnostic. Double-quoted strings and // and /* */ comments
// are skipped. Single quotes are not tracked: Rust lifetimes ('a) make
// them unreliable for a lexical pass.
func scanDelimiters(src string) string {
	var stack []openDelim
	line := 1

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '\n':
			line++
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
				line++
			} else if i+1 < len(src) && src[i+1] == '*' {
				start := line
				i += 2
				for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
					if src[i] == '\n' {
						line++
					}
					i++
				}
				if i+1 >= len(src) {
					return fmt.Sprintf("heuristic: unterminated block comment starting on line %d", start)
				}
				i++
			}
		case '"':
			start := line
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				} else if src[i] == '\n' {
					line++
				}
				i++
			}
			if i >= len(src) {
				return fmt.Sprintf("heuristic: unterminated string literal starting on line %d", start)
			}
		case '{', '(', '[':
			stack = append(stack, openDelim{ch: c, line: line})
		case '}', ')', ']':
			if len(stack) == 0 {
				return fmt.Sprintf("heuristic: unexpected %q on line %d", c, line)
			}
			top := stack[len(stack)-1]
			if closingFor[top.ch] != c {
				return fmt.Sprintf("heuristic: mismatched %q on line %d, expected %q for %q opened on line %d",
					c, line, closingFor[top.ch], top.ch, top.line)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return fmt.Sprintf("heuristic: unclosed %q opened on line %d", top.ch, top.line)
	}
	return ""
}
