// Package engine compiles user curve functions written in Lisp.
// It wraps zygomys in a sandboxed environment: the source must define
// (defn curve [t] ...) returning a two-element list or array [x y] in
// virtual coordinates.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine compiles curve sources. It is safe for concurrent use; every
// compiled curve owns a fresh sandbox so curves never share state.
type Engine struct {
	mu       sync.Mutex
	compiled uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Compiled returns the number of curves compiled successfully so far.
func (e *Engine) Compiled() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compiled
}

// curveDef matches the required entry point.
var curveDef = regexp.MustCompile(`\(\s*defn\s+curve[\s\[]`)

// CompileCurve loads source into a fresh sandbox and returns the curve it
// defines.
//
// Return semantics:
//   - On success: returns curve + nil errors + nil error
//   - On parse/eval failure: returns nil curve + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) CompileCurve(name, source string) (*Curve, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty curve source"}}, nil
	}
	src := preprocessSource(source)
	if !curveDef.MatchString(src) {
		return nil, []EvalError{{Message: "source must define (defn curve [t] ...)"}}, nil
	}

	c := &Curve{name: name, source: src, timeout: EvalTimeout}
	res := runWithTimeout(c.timeout, func() evalResult {
		env, evalErrs := load(src)
		return evalResult{env: env, errors: evalErrs}
	})
	if res.err != nil {
		return nil, nil, fmt.Errorf("engine: compile %s: %w", name, res.err)
	}
	if len(res.errors) > 0 {
		return nil, res.errors, nil
	}
	c.env = res.env

	e.mu.Lock()
	e.compiled++
	e.mu.Unlock()
	return c, nil, nil
}

// load creates a sandbox with the math builtins and runs the curve
// definitions in it.
func load(src string) (*zygo.Zlisp, []EvalError) {
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	registerBuiltins(env)

	if err := env.LoadString(prelude + src); err != nil {
		env.Stop()
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		env.Stop()
		return nil, parseZygomysError(err)
	}
	return env, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
