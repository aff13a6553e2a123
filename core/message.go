package core

// Roles used for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Block represents a polymorphic segment of role-based message content.
// Concrete block types implement the unexported isBlock marker enabling a
// closed set.
type Block interface{ isBlock() }

// TextBlock is a plain text content segment.
type TextBlock struct {
	Text string
}

// isBlock implements the Block interface for TextBlock.
func (TextBlock) isBlock() {}

// ToolUseBlock is a model request to invoke a named tool with structured input.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]any
}

// isBlock implements the Block interface for ToolUseBlock.
func (ToolUseBlock) isBlock() {}

// ToolResultBlock carries the outcome of a tool invocation back to the model.
// IsError marks failed invocations; Content then holds the error text.
type ToolResultBlock struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// isBlock implements the Block interface for ToolResultBlock.
func (ToolResultBlock) isBlock() {}

// Message holds a conversation role plus ordered content blocks.
type Message struct {
	Role   string
	Blocks []Block
}

// NewUserMessage builds a user message from plain text.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Blocks: []Block{TextBlock{Text: text}}}
}

// NewAssistantMessage builds an assistant message from the given blocks.
func NewAssistantMessage(blocks ...Block) Message {
	return Message{Role: RoleAssistant, Blocks: blocks}
}
