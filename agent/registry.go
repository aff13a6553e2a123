package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/logging"
)

// Routing errors returned by the registry's execute entry points.
var (
	// ErrNoAgentAvailable is returned when neither a capability match nor a
	// default agent exists for a task.
	ErrNoAgentAvailable = errors.New("no agent available")
	// ErrAgentNotFound is returned when an agent id cannot be resolved.
	ErrAgentNotFound = errors.New("agent not found")
	// ErrAgentExists is returned when registering a duplicate agent id or name.
	ErrAgentExists = errors.New("agent already registered")
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry owns the set of registered agents and routes tasks to the best
// capability match. The first agent ever registered becomes the default;
// removing the current default promotes the earliest-registered survivor.
//
// All map access is serialized by an RWMutex; agent executions themselves run
// outside the lock so routing is never blocked by in-flight work.
type Registry struct {
	mu        sync.RWMutex
	byID      map[string]Agent
	byName    map[string]Agent
	order     map[string]int // registration sequence per agent id
	seq       int
	defaultID string
	logger    logging.Logger
}

// NewRegistry creates an empty agent registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		byID:   make(map[string]Agent),
		byName: make(map[string]Agent),
		order:  make(map[string]int),
		logger: opts.Logger,
	}
}

// Register inserts an agent by id and name. The first registered agent
// becomes the default.
func (r *Registry) Register(a Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID()]; exists {
		return fmt.Errorf("%w: id %s", ErrAgentExists, a.ID())
	}
	if _, exists := r.byName[a.Name()]; exists {
		return fmt.Errorf("%w: name %s", ErrAgentExists, a.Name())
	}

	r.byID[a.ID()] = a
	r.byName[a.Name()] = a
	r.order[a.ID()] = r.seq
	r.seq++

	if r.defaultID == "" {
		r.defaultID = a.ID()
	}

	r.logger.Info("registry.agent.registered", "agent", a.Name(), "id", a.ID(), "capabilities", len(a.Capabilities()))
	return nil
}

// Unregister removes an agent by id. If it was the default, the
// earliest-registered remaining agent becomes the new default (or none).
// Returns true if the agent was registered.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.byID[id]
	if !exists {
		return false
	}

	delete(r.byID, id)
	delete(r.byName, a.Name())
	delete(r.order, id)

	if r.defaultID == id {
		r.defaultID = ""
		bestSeq := -1
		for remainingID, seq := range r.order {
			if bestSeq == -1 || seq < bestSeq {
				bestSeq = seq
				r.defaultID = remainingID
			}
		}
	}

	r.logger.Info("registry.agent.unregistered", "agent", a.Name(), "id", id)
	return true
}

// ByID retrieves an agent by id.
func (r *Registry) ByID(id string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// ByName retrieves an agent by name.
func (r *Registry) ByName(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[name]
	return a, ok
}

// Default returns the current default agent, if any.
func (r *Registry) Default() (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[r.defaultID]
	return a, ok
}

// SetDefault designates the default agent. Returns false for unknown ids.
func (r *Registry) SetDefault(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.defaultID = id
	return true
}

// Agents returns a snapshot of all registered agents in registration order.
func (r *Registry) Agents() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// FindBestAgent selects the candidate (CanHandle true) with the strictly
// greatest capability match score. Ties break deterministically toward the
// earliest-registered agent. With no candidate the default agent is used;
// with no default either, ErrNoAgentAvailable is returned.
func (r *Registry) FindBestAgent(task core.Task) (Agent, error) {
	r.mu.RLock()
	agents := r.snapshotLocked()
	def, hasDefault := r.byID[r.defaultID]
	r.mu.RUnlock()

	var best Agent
	bestScore := -1
	for _, a := range agents {
		if !a.CanHandle(task) {
			continue
		}
		if score := MatchScore(a, task); score > bestScore {
			best = a
			bestScore = score
		}
	}

	if best != nil {
		r.logger.Debug("registry.route.matched", "agent", best.Name(), "score", bestScore, "task", task.ID)
		return best, nil
	}
	if hasDefault {
		r.logger.Debug("registry.route.default", "agent", def.Name(), "task", task.ID)
		return def, nil
	}
	return nil, ErrNoAgentAvailable
}

// ExecuteWithBestAgent routes the task to the best matching agent and runs it.
func (r *Registry) ExecuteWithBestAgent(ctx context.Context, task core.Task) (core.Result, error) {
	a, err := r.FindBestAgent(task)
	if err != nil {
		return core.Result{}, err
	}
	return a.Execute(ctx, task)
}

// ExecuteWithAgent runs the task on a specific agent resolved by id.
func (r *Registry) ExecuteWithAgent(ctx context.Context, id string, task core.Task) (core.Result, error) {
	a, ok := r.ByID(id)
	if !ok {
		return core.Result{}, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	return a.Execute(ctx, task)
}

// snapshotLocked returns agents sorted by registration order; callers hold
// at least a read lock. The ordering keeps FindBestAgent deterministic.
func (r *Registry) snapshotLocked() []Agent {
	out := make([]Agent, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, r.byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		return r.order[out[i].ID()] < r.order[out[j].ID()]
	})
	return out
}
