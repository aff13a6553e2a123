// Package anthropic provides a model wrapper for the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/model"
)

// Options configures the Anthropic model adapter (model id, temperature,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Generate implements model.Model by adapting the normalized request into an
// Anthropic Messages call and mapping the response blocks back.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       m.resolveModel(req.Model),
		Messages:    buildMessages(req.Messages),
		MaxTokens:   m.resolveMaxTokens(req.MaxTokens),
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var blocks []core.Block
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				blocks = append(blocks, core.TextBlock{Text: textBlock.Text})
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			input := map[string]any{}
			if toolBlock.Input != nil {
				if raw, err := json.Marshal(toolBlock.Input); err == nil {
					_ = json.Unmarshal(raw, &input)
				}
			}
			blocks = append(blocks, core.ToolUseBlock{
				ID:    toolBlock.ID,
				Name:  toolBlock.Name,
				Input: input,
			})
		}
	}

	out := &model.Response{
		ID:         resp.ID,
		Blocks:     blocks,
		StopReason: model.StopReason(resp.StopReason),
		Usage: &model.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}
	if out.StopReason == "" {
		out.StopReason = model.StopReasonEndTurn
	}
	return out, nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}

func (m *Model) resolveModel(override string) anthropic.Model {
	if override != "" {
		return anthropic.Model(override)
	}
	return m.opts.Model
}

func (m *Model) resolveMaxTokens(override int) int64 {
	if override > 0 {
		return int64(override)
	}
	return m.opts.MaxTokens
}

// buildMessages converts engine messages to the Anthropic message format.
// Tool results travel as user-role tool_result blocks, matching the Messages
// API contract for tool calling round trips.
func buildMessages(messages []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam

	for _, msg := range messages {
		content := buildContent(msg.Blocks)
		if len(content) == 0 {
			continue
		}
		switch msg.Role {
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(content...))
		default:
			out = append(out, anthropic.NewUserMessage(content...))
		}
	}

	return out
}

func buildContent(blocks []core.Block) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion
	for _, b := range blocks {
		switch block := b.(type) {
		case core.TextBlock:
			if block.Text != "" {
				content = append(content, anthropic.NewTextBlock(block.Text))
			}
		case core.ToolUseBlock:
			content = append(content, anthropic.NewToolUseBlock(block.ID, block.Input, block.Name))
		case core.ToolResultBlock:
			content = append(content, anthropic.NewToolResultBlock(block.ToolUseID, block.Content, block.IsError))
		}
	}
	return content
}

// buildTools converts engine tool definitions to the Anthropic tool format.
func buildTools(tools []core.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))

	for i, def := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		if def.InputSchema != nil {
			if properties, ok := def.InputSchema["properties"]; ok {
				inputSchema.Properties = properties
			}
			if required, ok := def.InputSchema["required"]; ok {
				switch req := required.(type) {
				case []string:
					inputSchema.Required = req
				case []any:
					var reqStrings []string
					for _, r := range req {
						if s, ok := r.(string); ok {
							reqStrings = append(reqStrings, s)
						}
					}
					inputSchema.Required = reqStrings
				}
			}
		}

		tu := anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
		if def.Description != "" && tu.OfTool != nil {
			tu.OfTool.Description = anthropic.String(def.Description)
		}
		out[i] = tu
	}

	return out
}
