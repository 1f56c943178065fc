package expression

import (
	"fmt"
	"math"
	"strings"
)

// AngleUnit selects how trigonometric functions interpret their argument.
type AngleUnit int

const (
	// Radians is the default angle unit.
	Radians AngleUnit = iota
	// Degrees converts arguments from degrees before calling the trig
	// primitive.
	Degrees
)

func (u AngleUnit) String() string {
	if u == Degrees {
		return "degrees"
	}
	return "radians"
}

// ParseAngleUnit converts "radians", "rad", "degrees" or "deg".
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "radians", "rad":
		return Radians, nil
	case "degrees", "deg":
		return Degrees, nil
	default:
		return Radians, fmt.Errorf("unknown angle unit %q", s)
	}
}

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently with Set.
type Context struct {
	angle AngleUnit
	names map[string]Number
}

// Option is an option used when creating a context.
type Option func(*Context)

// WithAngleUnit sets the angle unit used by sin, cos and tan.
func WithAngleUnit(u AngleUnit) Option {
	return func(ctx *Context) {
		ctx.angle = u
	}
}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val Number) Option {
	return func(ctx *Context) {
		ctx.Set(name, val)
	}
}

// NewContext creates a new evaluation context.
func NewContext(opts ...Option) *Context {
	ctx := &Context{}
	for _, opt := range opts {
		if opt != nil {
			opt(ctx)
		}
	}
	return ctx
}

// Set sets the value of a variable. Constants cannot be shadowed. Returns ctx
// for chaining.
func (ctx *Context) Set(name string, val Number) *Context {
	name = canonicalIdent(name)
	if _, ok := constants[name]; ok {
		return ctx
	}
	if ctx.names == nil {
		ctx.names = make(map[string]Number)
	}
	ctx.names[name] = val
	return ctx
}

// Lookup returns the value of a constant or variable.
func (ctx *Context) Lookup(name string) (Number, bool) {
	name = canonicalIdent(name)
	if v, ok := constants[name]; ok {
		return v, true
	}
	v, ok := ctx.names[name]
	return v, ok
}

func (ctx *Context) radians(x float64) float64 {
	if ctx.angle == Degrees {
		return x * math.Pi / 180
	}
	return x
}

// Eval evaluates a parsed expression. The result is not canonicalized; use
// Number.Canonical or Evaluate for display values.
func (ctx *Context) Eval(e *Expr) (Number, error) {
	return e.n.eval(ctx)
}

func (n *node) eval(ctx *Context) (Number, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		v, ok := ctx.Lookup(n.name)
		if !ok {
			return Number{}, &NameError{Name: n.name}
		}
		return v, nil
	case nodeCall:
		arg, err := n.left.eval(ctx)
		if err != nil {
			return Number{}, err
		}
		x, err := arg.Float64()
		if err != nil {
			return Number{}, err
		}
		r, err := globalfuncs[n.name](ctx, x)
		if err != nil {
			return Number{}, err
		}
		return finite(n.name, r)
	case nodeNeg, nodeNop:
		v, err := n.left.eval(ctx)
		if err != nil {
			return Number{}, err
		}
		if n.kind == nodeNeg {
			return neg(v), nil
		}
		return v, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.eval(ctx)
		if err != nil {
			return Number{}, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return Number{}, err
		}
		return binops[n.kind](l, r)
	default:
		panic("expression: invalid AST node " + n.kind.String())
	}
}

var binops = map[nodeKind]func(a, b Number) (Number, error){
	nodeAdd: add,
	nodeSub: sub,
	nodeMul: mul,
	nodeDiv: quo,
	nodeMod: mod,
	nodePow: pow,
}

// Eval is a shortcut to parse and evaluate a display expression.
func Eval(src string, opts ...Option) (Number, error) {
	e, err := Parse(src)
	if err != nil {
		return Number{}, err
	}
	return NewContext(opts...).Eval(e)
}
