package agent

import (
	"context"

	"github.com/swarmlet/swarmlet/core"
)

// Agent is an executable unit that turns a Task into a Result by running an
// iterative tool-calling conversation with a language model.
//
// Implementations must:
//   - Respect context cancellation
//   - Return a Result even for domain failures (model errors, iteration caps);
//     Go errors are reserved for routing and protocol violations
//   - Be safe for concurrent Execute calls
type Agent interface {
	// ID returns the stable unique identifier of the agent.
	ID() string

	// Name returns the human-readable agent name, unique within a registry.
	Name() string

	// Description summarizes what the agent is good at.
	Description() string

	// Capabilities returns the declared areas of expertise used for routing.
	Capabilities() []core.Capability

	// CanHandle reports whether the agent is a candidate for the task.
	// Agents with no declared capabilities are generalists and accept anything.
	CanHandle(task core.Task) bool

	// Execute runs the task to completion and returns its result.
	Execute(ctx context.Context, task core.Task) (core.Result, error)
}
