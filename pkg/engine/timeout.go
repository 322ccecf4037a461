package engine

import (
	"fmt"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the hard limit for loading a curve source.
const EvalTimeout = 5 * time.Second

// CallTimeout is the hard limit for a single curve evaluation.
const CallTimeout = 500 * time.Millisecond

// ErrTimeout is returned when user code runs past its deadline.
var ErrTimeout = fmt.Errorf("engine: evaluation timed out")

// evalResult is the internal type used to pass evaluation results through channels.
type evalResult struct {
	env    *zygo.Zlisp
	value  zygo.Sexp
	errors []EvalError
	err    error
}

// runWithTimeout runs fn on its own goroutine and waits at most timeout
// for it. Panics in fn are recovered into evalResult.err.
//
// On timeout, the goroutine may still be running; the buffered channel lets
// it finish and be collected, and its result is discarded.
func runWithTimeout(timeout time.Duration, fn func() evalResult) evalResult {
	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		ch <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res
	case <-timer.C:
		return evalResult{err: fmt.Errorf("%w after %s", ErrTimeout, timeout)}
	}
}
