package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/internal/util"
	"github.com/swarmlet/swarmlet/logging"
	"github.com/swarmlet/swarmlet/model"
	"github.com/swarmlet/swarmlet/tool"
)

// ErrUnexpectedStopReason indicates the model returned a stop reason outside
// the known protocol vocabulary. This is a provider contract violation and is
// fatal for the task; it is not retried.
var ErrUnexpectedStopReason = errors.New("unexpected stop reason")

// maxIterationsMessage is the fixed error text reported when the
// tool-calling loop exceeds the task's iteration cap.
const maxIterationsMessage = "Max iterations reached"

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Description  string
	SystemPrompt string
	Model        string
	Capabilities []core.Capability
	Tools        tool.Executor
	Logger       logging.Logger
}

// ModelAgent runs tasks through an iterative tool-calling loop against a
// language model: the model either finishes the turn or requests tool
// executions whose results are fed back as conversation context until it
// finishes or the task's iteration cap trips.
type ModelAgent struct {
	BaseAgent
	llm          model.Model
	tools        tool.Executor
	systemPrompt string
	modelName    string
	logger       logging.Logger
}

// NewModelAgent creates a model-backed agent.
//
// Defaults:
//   - system prompt "You are {name}, a helpful AI assistant."
//   - no declared capabilities (generalist)
//   - no tool executor (tool requests come back as error results)
//   - NoOp logger
//
// The system prompt may contain text/template markers resolved against the
// task metadata at execution time.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		SystemPrompt: fmt.Sprintf("You are %s, a helpful AI assistant.", name),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelAgent{
		BaseAgent:    NewBaseAgent(name, opts.Description, opts.Capabilities...),
		llm:          llm,
		tools:        opts.Tools,
		systemPrompt: opts.SystemPrompt,
		modelName:    opts.Model,
		logger:       opts.Logger,
	}
}

// Execute implements Agent. Domain failures (model call errors, iteration
// caps, deadline) come back as a failed Result with nil error; a non-nil
// error means a protocol violation.
func (a *ModelAgent) Execute(ctx context.Context, task core.Task) (core.Result, error) {
	start := time.Now()

	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	a.logger.Debug("agent.execute.start", "agent", a.Name(), "task", task.ID)

	messages := make([]core.Message, 0, len(task.Context)+1)
	messages = append(messages, task.Context...)
	messages = append(messages, core.NewUserMessage(task.Instruction))

	system, err := util.RenderTemplate(a.systemPrompt, metadataState(task.Metadata))
	if err != nil {
		system = a.systemPrompt
	}

	maxIterations := task.MaxIterations
	if maxIterations <= 0 {
		maxIterations = core.DefaultMaxIterations
	}

	var (
		iterations   int
		inputTokens  int
		outputTokens int
		toolCalls    []core.ToolCallRecord
	)

	for {
		iterations++
		if iterations > maxIterations {
			a.logger.Warn("agent.execute.max_iterations", "agent", a.Name(), "task", task.ID, "iterations", iterations)
			return core.Result{
				TaskID:        task.ID,
				AgentID:       a.ID(),
				Success:       false,
				Error:         maxIterationsMessage,
				Iterations:    iterations,
				InputTokens:   inputTokens,
				OutputTokens:  outputTokens,
				ExecutionTime: time.Since(start),
				Status:        core.StatusFailed,
				ToolCalls:     toolCalls,
			}, nil
		}

		callStart := time.Now()
		resp, err := a.llm.Generate(ctx, model.Request{
			Model:     a.modelName,
			MaxTokens: task.MaxTokens,
			System:    system,
			Messages:  messages,
			Tools:     a.requestTools(task),
		})
		if err != nil {
			logging.LogModelCall(a.logger, a.llm.Info().Name, 0, 0, time.Since(callStart), err)

			status := core.StatusFailed
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
				status = core.StatusTimeout
			}
			return core.Result{
				TaskID:        task.ID,
				AgentID:       a.ID(),
				Success:       false,
				Error:         err.Error(),
				ExecutionTime: time.Since(start),
				Status:        status,
			}, nil
		}

		if resp.Usage != nil {
			inputTokens += resp.Usage.InputTokens
			outputTokens += resp.Usage.OutputTokens
		}
		logging.LogModelCall(a.logger, a.llm.Info().Name, inputTokens, outputTokens, time.Since(callStart), nil)

		switch {
		case resp.StopReason.Terminal():
			a.logger.Debug("agent.execute.complete", "agent", a.Name(), "task", task.ID, "iterations", iterations)
			return core.Result{
				TaskID:        task.ID,
				AgentID:       a.ID(),
				Output:        resp.Text(),
				Success:       true,
				Iterations:    iterations,
				InputTokens:   inputTokens,
				OutputTokens:  outputTokens,
				ExecutionTime: time.Since(start),
				Status:        core.StatusCompleted,
				ToolCalls:     toolCalls,
			}, nil

		case resp.StopReason.RequestsTools():
			resultBlocks, records := a.dispatchTools(ctx, resp.ToolUses())
			toolCalls = append(toolCalls, records...)
			messages = append(messages,
				core.NewAssistantMessage(resp.Blocks...),
				core.Message{Role: core.RoleUser, Blocks: resultBlocks},
			)

		default:
			a.logger.Error("agent.execute.protocol_violation", "agent", a.Name(), "task", task.ID, "stop_reason", string(resp.StopReason))
			return core.Result{}, fmt.Errorf("%w: %q", ErrUnexpectedStopReason, resp.StopReason)
		}
	}
}

// dispatchTools executes every requested tool use and returns the result
// blocks for the follow-up user message plus one record per invocation.
// Tool failures never fail the task; they travel back to the model as
// error-tagged tool results.
func (a *ModelAgent) dispatchTools(ctx context.Context, uses []core.ToolUseBlock) ([]core.Block, []core.ToolCallRecord) {
	blocks := make([]core.Block, 0, len(uses))
	records := make([]core.ToolCallRecord, 0, len(uses))

	for _, use := range uses {
		var res tool.Result
		if a.tools != nil {
			res = a.tools.Execute(ctx, use.Name, use.Input)
		} else {
			res = tool.Result{Output: fmt.Sprintf("tool %q not available", use.Name), IsError: true}
		}

		records = append(records, core.ToolCallRecord{
			ID:      use.ID,
			Name:    use.Name,
			Input:   use.Input,
			Output:  res.Output,
			IsError: res.IsError,
		})
		blocks = append(blocks, core.ToolResultBlock{
			ToolUseID: use.ID,
			Content:   res.Output,
			IsError:   res.IsError,
		})
	}

	return blocks, records
}

// requestTools resolves the tool schemas for a model request: the task's
// declared tools win, otherwise everything the executor exposes.
func (a *ModelAgent) requestTools(task core.Task) []core.ToolDefinition {
	if len(task.Tools) > 0 {
		return task.Tools
	}
	if a.tools != nil {
		return a.tools.Definitions()
	}
	return nil
}

func metadataState(metadata map[string]string) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	state := make(map[string]any, len(metadata))
	for k, v := range metadata {
		state[k] = v
	}
	return state
}
