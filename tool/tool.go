// Package tool implements the tool execution capability agents call into
// during the tool-calling loop: schema validated function tools, consistent
// error codes and a registry that converts failures into error-tagged results
// instead of propagating them.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools can be registered with a Registry to enable function calling, allowing
// agents to perform actions beyond text generation such as API calls,
// calculations or database queries.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the LLM to help it decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with structured, schema-validated arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Result is the normalized outcome of one tool execution. Failed executions
// carry IsError true with the error text in Output; they are fed back to the
// model as conversation context rather than failing the surrounding task.
type Result struct {
	Output  string `json:"output"`
	IsError bool   `json:"is_error"`
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
