// Package delegate provides the task-splitting and delegation entry points
// callers use to hand work to the engine: single-task delegation through the
// registry, parallel delegation through the executor, and helpers that carve
// one task into parallel sub-tasks.
package delegate

import (
	"context"
	"fmt"
	"sync"

	"github.com/swarmlet/swarmlet/agent"
	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/executor"
	"github.com/swarmlet/swarmlet/internal/util"
	"github.com/swarmlet/swarmlet/logging"
)

// Options configures a Delegator.
type Options struct {
	Logger logging.Logger
}

// Delegator is the delegation entry point. Single-task delegation is
// serialized by a mutex; parallel delegation forwards to the executor.
type Delegator struct {
	mu       sync.Mutex
	registry *agent.Registry
	executor *executor.ParallelExecutor
	logger   logging.Logger
}

// New creates a Delegator over the given registry and executor.
func New(registry *agent.Registry, exec *executor.ParallelExecutor, optFns ...func(o *Options)) *Delegator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Delegator{registry: registry, executor: exec, logger: opts.Logger}
}

// Delegate routes a single task to the best matching agent.
func (d *Delegator) Delegate(ctx context.Context, task core.Task) (core.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Debug("delegate.single", "task", task.ID)
	return d.registry.ExecuteWithBestAgent(ctx, task)
}

// DelegateTo routes a single task to a specific agent by id.
func (d *Delegator) DelegateTo(ctx context.Context, agentID string, task core.Task) (core.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Debug("delegate.to", "task", task.ID, "agent", agentID)
	return d.registry.ExecuteWithAgent(ctx, agentID, task)
}

// DelegateParallel runs a batch of tasks through the parallel executor.
func (d *Delegator) DelegateParallel(ctx context.Context, tasks []core.Task) ([]core.Result, error) {
	d.logger.Debug("delegate.parallel", "tasks", len(tasks))
	return d.executor.ExecuteAll(ctx, tasks)
}

// SplitTask partitions a task into parts contiguous sub-tasks. Each sub-task
// gets a fresh id, an instruction prefixed "Part i of parts:", a roughly
// equal slice of the original context (empty when parts exceeds the context
// length), the same tools, priority and limits, and an even share of the
// token budget. parts <= 1 returns the task unchanged.
func SplitTask(task core.Task, parts int) []core.Task {
	if parts <= 1 {
		return []core.Task{task}
	}

	chunk := (len(task.Context) + parts - 1) / parts

	subtasks := make([]core.Task, 0, parts)
	for i := 0; i < parts; i++ {
		start := min(i*chunk, len(task.Context))
		end := min(start+chunk, len(task.Context))

		sub := task
		sub.ID = util.NewID()
		sub.Instruction = fmt.Sprintf("Part %d of %d: %s", i+1, parts, task.Instruction)
		sub.Context = cloneMessages(task.Context[start:end])
		sub.Tools = cloneTools(task.Tools)
		sub.MaxTokens = task.MaxTokens / parts
		sub.Metadata = cloneMetadata(task.Metadata)
		subtasks = append(subtasks, sub)
	}
	return subtasks
}

// ParallelSubtasks builds one sub-task per focus string. Each sub-task's
// instruction is "focus: baseInstruction"; context and tools are copied by
// value so sibling sub-tasks cannot alias each other's slices.
func ParallelSubtasks(baseInstruction string, focuses []string, context []core.Message, tools []core.ToolDefinition) []core.Task {
	subtasks := make([]core.Task, 0, len(focuses))
	for _, focus := range focuses {
		instruction := fmt.Sprintf("%s: %s", focus, baseInstruction)
		sub := core.NewTask(instruction, func(t *core.Task) {
			t.Context = cloneMessages(context)
			t.Tools = cloneTools(tools)
		})
		subtasks = append(subtasks, sub)
	}
	return subtasks
}

func cloneMessages(messages []core.Message) []core.Message {
	if messages == nil {
		return nil
	}
	out := make([]core.Message, len(messages))
	copy(out, messages)
	return out
}

func cloneTools(tools []core.ToolDefinition) []core.ToolDefinition {
	if tools == nil {
		return nil
	}
	out := make([]core.ToolDefinition, len(tools))
	copy(out, tools)
	return out
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
