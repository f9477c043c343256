package executor

import (
	"sync"

	"github.com/bebsworthy/clifixture/internal/debug"
)

// Reserved program names
const (
	// SentinelTool runs the tool under test through the interpreter
	SentinelTool = "qunit"
	// SentinelInterpreter runs the interpreter itself
	SentinelInterpreter = "node"
)

// ResolveFunc turns the arguments of a sentinel command into a concrete
// program and argument list.
type ResolveFunc func(args []string) (name string, resolved []string)

// Resolver maps reserved program names to resolution strategies.
// Names without a strategy are passed through for normal PATH lookup.
type Resolver struct {
	mu         sync.RWMutex
	strategies map[string]ResolveFunc
}

// NewResolver creates an empty resolver
func NewResolver() *Resolver {
	return &Resolver{strategies: make(map[string]ResolveFunc)}
}

// NewDefaultResolver registers SentinelTool and SentinelInterpreter
func NewDefaultResolver(interpreter, toolEntry string) *Resolver {
	r := NewResolver()
	r.Register(SentinelTool, ToolStrategy(interpreter, toolEntry))
	r.Register(SentinelInterpreter, InterpreterStrategy(interpreter))
	return r
}

// Register adds or replaces the strategy for name
func (r *Resolver) Register(name string, fn ResolveFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[name] = fn
}

// Resolve returns the program and arguments to spawn. The caller's slice is
// never modified.
func (r *Resolver) Resolve(command Command) (string, []string) {
	if len(command) == 0 {
		return "", nil
	}
	name := command[0]
	args := append([]string(nil), command[1:]...)

	r.mu.RLock()
	fn, ok := r.strategies[name]
	r.mu.RUnlock()
	if !ok {
		return name, args
	}

	resolved, resolvedArgs := fn(args)
	debug.Log("Resolved %q to %q", name, resolved)
	return resolved, resolvedArgs
}

// ToolStrategy prepends entry to the arguments and runs interpreter
func ToolStrategy(interpreter, entry string) ResolveFunc {
	return func(args []string) (string, []string) {
		return interpreter, append([]string{entry}, args...)
	}
}

// InterpreterStrategy replaces the program name with interpreter
func InterpreterStrategy(interpreter string) ResolveFunc {
	return func(args []string) (string, []string) {
		return interpreter, args
	}
}
