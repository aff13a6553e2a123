package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmlet/swarmlet/core"
)

func TestMockModelScriptedTurns(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.EnqueueResponse(&Response{
		Blocks:     []core.Block{core.TextBlock{Text: "first"}},
		StopReason: StopReasonEndTurn,
	})
	m.EnqueueError(errors.New("api down"))

	resp, err := m.Generate(context.Background(), Request{Messages: []core.Message{core.NewUserMessage("hi")}})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text())

	_, err = m.Generate(context.Background(), Request{Messages: []core.Message{core.NewUserMessage("hi")}})
	assert.EqualError(t, err, "api down")
}

func TestMockModelEchoesWhenScriptExhausted(t *testing.T) {
	m := NewMockModel("test", "mock")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hello there")},
	})
	require.NoError(t, err)
	assert.Equal(t, StopReasonEndTurn, resp.StopReason)
	assert.Contains(t, resp.Text(), "hello there")
}

func TestMockModelRecordsRequests(t *testing.T) {
	m := NewMockModel("test", "mock")
	req := Request{System: "be brief", Messages: []core.Message{core.NewUserMessage("hi")}}

	_, err := m.Generate(context.Background(), req)
	require.NoError(t, err)

	got := m.Requests()
	require.Len(t, got, 1)
	assert.Equal(t, "be brief", got[0].System)
}

func TestMockModelRespectsCancelledContext(t *testing.T) {
	m := NewMockModel("test", "mock")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResponseText(t *testing.T) {
	resp := &Response{Blocks: []core.Block{
		core.TextBlock{Text: "line one"},
		core.ToolUseBlock{ID: "t1", Name: "search"},
		core.TextBlock{Text: "line two"},
	}}
	assert.Equal(t, "line one\nline two", resp.Text())
}

func TestStopReasonClassification(t *testing.T) {
	assert.True(t, StopReasonEndTurn.Terminal())
	assert.True(t, StopReasonStopSequence.Terminal())
	assert.True(t, StopReasonStop.Terminal())
	assert.True(t, StopReasonToolUse.RequestsTools())
	assert.True(t, StopReasonToolCalls.RequestsTools())
	assert.False(t, StopReason("max_tokens").Terminal())
	assert.False(t, StopReason("max_tokens").RequestsTools())
}
