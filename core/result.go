package core

import "time"

// ToolCallRecord captures one tool invocation made during an execution,
// including invocations that failed (IsError true, Output holds the error
// text).
type ToolCallRecord struct {
	ID      string
	Name    string
	Input   map[string]any
	Output  string
	IsError bool
}

// Result is the outcome of running one task through an agent.
type Result struct {
	TaskID        string
	AgentID       string
	Output        string
	Success       bool
	Error         string
	Iterations    int
	InputTokens   int
	OutputTokens  int
	ExecutionTime time.Duration
	Status        TaskStatus
	ToolCalls     []ToolCallRecord
}

// ExecutionTimeMs returns the wall clock execution time in milliseconds.
func (r Result) ExecutionTimeMs() int64 { return r.ExecutionTime.Milliseconds() }
