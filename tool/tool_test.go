package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmlet/swarmlet/internal/util"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror possible JSON decoded schema shape
		"required": []any{"x"},
	}

	err := util.ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)

	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")
}

// -------------------- FunctionTool Tests --------------------

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

func TestFunctionToolCall(t *testing.T) {
	out, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, out)
}

func TestFunctionToolValidationError(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0})
	require.Error(t, err)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("kaboom")
		})

	_, err := failing.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "kaboom", toolErr.Message)
}

func TestFunctionToolCustomErrorPreserved(t *testing.T) {
	failing := NewFunctionTool("quota", "Fails with custom code", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, NewToolError("quota", "limit exceeded", "QUOTA_ERROR")
		})

	_, err := failing.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "QUOTA_ERROR", toolErr.Code)
}

// -------------------- Registry Tests --------------------

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(sumTool())

	res := r.Execute(context.Background(), "calculate_sum", map[string]any{"a": 1.0, "b": 2.0})
	assert.False(t, res.IsError)
	assert.Equal(t, "3", res.Output)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	res := r.Execute(context.Background(), "missing", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Output, "not found")
}

func TestRegistryExecuteErrorTagged(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFunctionTool("boom", "Always fails", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("kaboom")
		}))

	res := r.Execute(context.Background(), "boom", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Output, "kaboom")
}

func TestRegistryExecuteStringifiesStructuredOutput(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFunctionTool("lookup", "Returns a map", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"city": "Berlin"}, nil
		}))

	res := r.Execute(context.Background(), "lookup", map[string]any{})
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"city":"Berlin"}`, res.Output)
}

func TestRegistryDefinitionsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFunctionTool("first", "First tool", map[string]any{"type": "object"}, nil))
	r.Register(NewFunctionTool("second", "Second tool", map[string]any{"type": "object"}, nil))
	r.Register(NewFunctionTool("third", "Third tool", map[string]any{"type": "object"}, nil))

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "first", defs[0].Name)
	assert.Equal(t, "second", defs[1].Name)
	assert.Equal(t, "third", defs[2].Name)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(sumTool())

	assert.True(t, r.Unregister("calculate_sum"))
	assert.False(t, r.Unregister("calculate_sum"))
	_, ok := r.Get("calculate_sum")
	assert.False(t, ok)
}
