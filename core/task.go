package core

import (
	"time"

	"github.com/swarmlet/swarmlet/internal/util"
)

// Default task limits applied by NewTask.
const (
	DefaultMaxIterations = 10
	DefaultMaxTokens     = 4096
	DefaultTimeout       = 120 * time.Second
)

// TaskPriority orders tasks by importance. It is carried as scheduling
// metadata; execution order is not currently derived from it.
type TaskPriority int

const (
	// PriorityLow marks background work.
	PriorityLow TaskPriority = iota
	// PriorityNormal is the default priority.
	PriorityNormal
	// PriorityHigh marks time sensitive work.
	PriorityHigh
	// PriorityCritical marks work that should preempt everything else.
	PriorityCritical
)

// Weight returns the numeric scheduling weight of the priority.
func (p TaskPriority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 10
	case PriorityCritical:
		return 20
	default:
		return 5
	}
}

// String returns the string representation of the priority.
func (p TaskPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "normal"
	}
}

// TaskStatus describes the lifecycle state of a task execution.
type TaskStatus string

const (
	// StatusPending is the initial state of a freshly constructed task.
	StatusPending TaskStatus = "pending"
	// StatusQueued marks a task admitted to a batch but not yet started.
	StatusQueued TaskStatus = "queued"
	// StatusRunning marks a task currently executing.
	StatusRunning TaskStatus = "running"
	// StatusCompleted marks a successful execution.
	StatusCompleted TaskStatus = "completed"
	// StatusFailed marks an execution that ended with an error.
	StatusFailed TaskStatus = "failed"
	// StatusCancelled marks an execution aborted by its caller.
	StatusCancelled TaskStatus = "cancelled"
	// StatusTimeout marks an execution that exceeded the task deadline.
	StatusTimeout TaskStatus = "timeout"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// InputSchema is a minimal JSON Schema object describing the arguments.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Task is one unit of work routed to an agent. Context carries prior
// conversation messages; Tools lists the tool schemas the model may call.
type Task struct {
	ID            string
	Instruction   string
	Context       []Message
	Tools         []ToolDefinition
	Priority      TaskPriority
	Status        TaskStatus
	MaxIterations int
	MaxTokens     int
	Timeout       time.Duration
	Metadata      map[string]string
}

// NewTask creates a pending task with a fresh id and default limits.
// Override fields through the option functions:
//
//	task := core.NewTask("Summarize the incident report", func(t *core.Task) {
//		t.Priority = core.PriorityHigh
//		t.MaxIterations = 5
//	})
func NewTask(instruction string, optFns ...func(t *Task)) Task {
	t := Task{
		ID:            util.NewID(),
		Instruction:   instruction,
		Priority:      PriorityNormal,
		Status:        StatusPending,
		MaxIterations: DefaultMaxIterations,
		MaxTokens:     DefaultMaxTokens,
		Timeout:       DefaultTimeout,
		Metadata:      map[string]string{},
	}
	for _, fn := range optFns {
		fn(&t)
	}
	return t
}
