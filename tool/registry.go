package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/logging"
)

// Executor is the tool execution capability consumed by the agent loop.
// Execute never returns a Go error: failures are converted into an
// error-tagged Result so the loop can feed them back to the model.
type Executor interface {
	Execute(ctx context.Context, name string, input map[string]any) Result
	Definitions() []core.ToolDefinition
}

// RegistryOptions configures a tool Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry holds named tools and implements the Executor capability over
// them. Registration order is preserved for Definitions.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: opts.Logger,
	}
}

// Register adds a tool under its name, replacing any previous tool with the
// same name without disturbing its position in the definition order.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// RegisterAll adds multiple tools at once.
func (r *Registry) RegisterAll(tools ...Tool) {
	for _, t := range tools {
		r.Register(t)
	}
}

// Unregister removes a tool by name. Returns true if the tool was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		return false
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Execute implements Executor. Unknown tools and tool errors surface as
// error-tagged results, never as Go errors.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) Result {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("tool.execute.unknown", "tool", name)
		return Result{Output: fmt.Sprintf("tool %q not found", name), IsError: true}
	}

	start := time.Now()
	out, err := t.Call(ctx, input)
	if err != nil {
		logging.LogToolCall(r.logger, name, time.Since(start), true)
		return Result{Output: err.Error(), IsError: true}
	}
	logging.LogToolCall(r.logger, name, time.Since(start), false)

	return Result{Output: stringify(out)}
}

// Definitions implements Executor, returning tool schemas in registration order.
func (r *Registry) Definitions() []core.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]core.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t, ok := r.tools[name]
		if !ok {
			continue
		}
		defs = append(defs, core.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}
	return defs
}

// stringify renders a tool return value for the model: strings pass through,
// everything else is JSON encoded.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
