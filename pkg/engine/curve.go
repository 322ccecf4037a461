package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/stencilstation/pkg/curve"
	"github.com/chazu/stencilstation/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ErrBroken is returned by every call on a curve that previously timed out.
var ErrBroken = errors.New("engine: curve abandoned after timeout")

// Curve is a compiled user curve. Calls are serialized; the sandbox is
// rebuilt after a failed call so a runtime error cannot leave stale
// interpreter state behind.
type Curve struct {
	name    string
	source  string
	timeout time.Duration

	mu     sync.Mutex
	env    *zygo.Zlisp
	dirty  bool
	broken bool
}

// Name returns the name the curve was compiled under.
func (c *Curve) Name() string {
	return c.name
}

// At evaluates (curve t).
func (c *Curve) At(t float64) (geom.Vec2, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return geom.Vec2{}, ErrBroken
	}
	if c.dirty {
		env, evalErrs := load(c.source)
		if len(evalErrs) > 0 {
			c.broken = true
			return geom.Vec2{}, fmt.Errorf("engine: %s: reload: %w", c.name, evalErrs[0])
		}
		c.env.Stop()
		c.env = env
		c.dirty = false
	}

	env := c.env
	timeout := c.timeout
	if timeout <= 0 {
		timeout = CallTimeout
	}
	res := runWithTimeout(timeout, func() evalResult {
		if err := env.LoadString("(curve " + floatLiteral(t) + ")"); err != nil {
			return evalResult{err: err}
		}
		v, err := env.Run()
		return evalResult{value: v, err: err}
	})
	if errors.Is(res.err, ErrTimeout) {
		// The interpreter goroutine is still running; never touch env again.
		c.broken = true
		return geom.Vec2{}, fmt.Errorf("engine: %s at t=%g: %w", c.name, t, res.err)
	}
	if res.err != nil {
		c.dirty = true
		return geom.Vec2{}, fmt.Errorf("engine: %s at t=%g: %w", c.name, t, res.err)
	}
	p, err := toVec2(res.value)
	if err != nil {
		return geom.Vec2{}, fmt.Errorf("engine: %s at t=%g: %w", c.name, t, err)
	}
	return p, nil
}

// Func adapts the curve to the sampler.
func (c *Curve) Func() curve.Func {
	return c.At
}

// Close releases the sandbox. A broken curve's sandbox is left to its
// runaway goroutine.
func (c *Curve) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.env != nil && !c.broken {
		c.env.Stop()
	}
	c.env = nil
	c.broken = true
}

// floatLiteral formats t so zygomys reads it as a float, never an int.
func floatLiteral(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// toVec2 reads an [x y] array or (x y) list.
func toVec2(s zygo.Sexp) (geom.Vec2, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return geom.Vec2{}, fmt.Errorf("curve must return [x y]: %w", err)
	}
	if len(items) != 2 {
		return geom.Vec2{}, fmt.Errorf("curve must return [x y], got %d values", len(items))
	}
	x, err := toFloat64(items[0])
	if err != nil {
		return geom.Vec2{}, fmt.Errorf("x: %w", err)
	}
	y, err := toFloat64(items[1])
	if err != nil {
		return geom.Vec2{}, fmt.Errorf("y: %w", err)
	}
	return geom.Vec2{X: x, Y: y}, nil
}
