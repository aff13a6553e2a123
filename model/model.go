package model

import (
	"context"
	"strings"
	"sync"

	"github.com/swarmlet/swarmlet/core"
)

// StopReason explains why the model stopped generating. The values mirror
// provider vocabularies: Anthropic emits end_turn / stop_sequence / tool_use,
// OpenAI emits stop / tool_calls.
type StopReason string

const (
	// StopReasonEndTurn signals a finished assistant turn.
	StopReasonEndTurn StopReason = "end_turn"
	// StopReasonStopSequence signals generation hit a configured stop sequence.
	StopReasonStopSequence StopReason = "stop_sequence"
	// StopReasonStop is the OpenAI flavored end-of-turn marker.
	StopReasonStop StopReason = "stop"
	// StopReasonToolUse signals the model requests tool execution (Anthropic).
	StopReasonToolUse StopReason = "tool_use"
	// StopReasonToolCalls signals the model requests tool execution (OpenAI).
	StopReasonToolCalls StopReason = "tool_calls"
)

// Terminal reports whether the stop reason ends the conversation turn.
func (r StopReason) Terminal() bool {
	return r == StopReasonEndTurn || r == StopReasonStopSequence || r == StopReasonStop
}

// RequestsTools reports whether the stop reason asks for tool execution.
func (r StopReason) RequestsTools() bool {
	return r == StopReasonToolUse || r == StopReasonToolCalls
}

// Usage captures token accounting reported by the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Request captures the normalized model input produced by the agent loop.
type Request struct {
	Model     string                `json:"model,omitempty"`
	MaxTokens int                   `json:"max_tokens,omitempty"`
	System    string                `json:"system,omitempty"`
	Messages  []core.Message        `json:"messages"`
	Tools     []core.ToolDefinition `json:"tools,omitempty"`
}

// Response is one complete model turn. Blocks holds the ordered content
// (text and tool_use blocks); Usage may be nil when the provider reports none.
type Response struct {
	ID         string       `json:"id,omitempty"`
	Blocks     []core.Block `json:"blocks"`
	StopReason StopReason   `json:"stop_reason"`
	Usage      *Usage       `json:"usage,omitempty"`
}

// Text concatenates all text blocks of the response joined with newlines.
func (r *Response) Text() string {
	var parts []string
	for _, b := range r.Blocks {
		if tb, ok := b.(core.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolUses returns the tool_use blocks of the response in order.
func (r *Response) ToolUses() []core.ToolUseBlock {
	var uses []core.ToolUseBlock
	for _, b := range r.Blocks {
		if tu, ok := b.(core.ToolUseBlock); ok {
			uses = append(uses, tu)
		}
	}
	return uses
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the agent loop requires to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are served from a FIFO script; when the script is exhausted the
// configured default response (or a plain echo) is returned.
type MockModel struct {
	mu         sync.Mutex
	info       Info
	script     []scriptedTurn
	defaultRes *Response
	requests   []Request
}

type scriptedTurn struct {
	resp *Response
	err  error
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: provider, SupportsTools: true},
	}
}

// EnqueueResponse appends a scripted response turn.
func (m *MockModel) EnqueueResponse(resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptedTurn{resp: resp})
}

// EnqueueError appends a scripted error turn.
func (m *MockModel) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptedTurn{err: err})
}

// SetDefaultResponse sets the response served once the script is exhausted.
func (m *MockModel) SetDefaultResponse(resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRes = resp
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model by replaying the scripted turns in order.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.script) > 0 {
		turn := m.script[0]
		m.script = m.script[1:]
		if turn.err != nil {
			return nil, turn.err
		}
		return turn.resp, nil
	}

	if m.defaultRes != nil {
		return m.defaultRes, nil
	}

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role != core.RoleUser {
			continue
		}
		for _, b := range msg.Blocks {
			if tb, ok := b.(core.TextBlock); ok {
				lastUser = tb.Text
			}
		}
	}
	return &Response{
		Blocks:     []core.Block{core.TextBlock{Text: "Mock response to: " + lastUser}},
		StopReason: StopReasonEndTurn,
	}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
