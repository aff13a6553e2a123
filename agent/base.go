package agent

import (
	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/internal/util"
)

// BaseAgent provides identity and capability plumbing shared by concrete
// agent implementations. Embed it and implement Execute.
type BaseAgent struct {
	id           string
	name         string
	description  string
	capabilities []core.Capability
}

// NewBaseAgent creates a BaseAgent with a fresh unique id.
func NewBaseAgent(name, description string, capabilities ...core.Capability) BaseAgent {
	return BaseAgent{
		id:           util.NewID(),
		name:         name,
		description:  description,
		capabilities: capabilities,
	}
}

// ID returns the agent's unique identifier.
func (a *BaseAgent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *BaseAgent) Name() string { return a.name }

// Description returns the agent's summary.
func (a *BaseAgent) Description() string { return a.description }

// Capabilities returns the declared capability set.
func (a *BaseAgent) Capabilities() []core.Capability {
	caps := make([]core.Capability, len(a.capabilities))
	copy(caps, a.capabilities)
	return caps
}

// CanHandle reports whether any declared capability matches the task
// instruction. An agent with no capabilities is a generalist and handles
// every task.
func (a *BaseAgent) CanHandle(task core.Task) bool {
	if len(a.capabilities) == 0 {
		return true
	}
	for _, c := range a.capabilities {
		if c.Matches(task.Instruction) {
			return true
		}
	}
	return false
}

// MatchScore counts how many declared capabilities match the task instruction.
func MatchScore(a Agent, task core.Task) int {
	score := 0
	for _, c := range a.Capabilities() {
		if c.Matches(task.Instruction) {
			score++
		}
	}
	return score
}
