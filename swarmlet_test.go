package swarmlet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmlet/swarmlet/agent"
	"github.com/swarmlet/swarmlet/aggregate"
	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/model"
)

func newEchoAgent(name string, capabilities ...core.Capability) *agent.ModelAgent {
	llm := model.NewMockModel("mock-"+name, "mock")
	return agent.NewModelAgent(name, llm, func(o *agent.ModelAgentOptions) {
		o.Capabilities = capabilities
	})
}

func TestSwarmDelegateRoutesByCapability(t *testing.T) {
	s := New()

	coder := newEchoAgent("Coder", core.Capability{
		Name:     "code",
		Keywords: []string{"golang", "refactor"},
	})
	writer := newEchoAgent("Writer", core.Capability{
		Name:     "writing",
		Keywords: []string{"blog", "article"},
	})
	require.NoError(t, s.Register(coder))
	require.NoError(t, s.Register(writer))

	res, err := s.Delegate(context.Background(), core.NewTask("Refactor this golang service"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, coder.ID(), res.AgentID)
	assert.Contains(t, res.Output, "Refactor this golang service")
}

func TestSwarmDelegateTo(t *testing.T) {
	s := New()
	writer := newEchoAgent("Writer")
	require.NoError(t, s.Register(writer))

	res, err := s.DelegateTo(context.Background(), writer.ID(), core.NewTask("Draft the announcement"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, writer.ID(), res.AgentID)
}

func TestSwarmDelegateToUnknownAgent(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(newEchoAgent("Writer")))

	_, err := s.DelegateTo(context.Background(), "no-such-id", core.NewTask("anything"))
	assert.ErrorIs(t, err, agent.ErrAgentNotFound)
}

func TestSwarmDelegateEmptyRegistry(t *testing.T) {
	s := New()

	_, err := s.Delegate(context.Background(), core.NewTask("anything"))
	assert.ErrorIs(t, err, agent.ErrNoAgentAvailable)
}

func TestSwarmDelegateParallel(t *testing.T) {
	s := New(func(o *Options) { o.MaxConcurrency = 2 })
	require.NoError(t, s.Register(newEchoAgent("Generalist")))

	tasks := make([]core.Task, 4)
	for i := range tasks {
		tasks[i] = core.NewTask(fmt.Sprintf("item %d", i))
	}

	results, err := s.DelegateParallel(context.Background(), tasks)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	for _, r := range results {
		assert.True(t, r.Success)
	}
}

func TestSwarmDelegateAndAggregate(t *testing.T) {
	s := New(func(o *Options) { o.Strategy = aggregate.WithSummary })
	require.NoError(t, s.Register(newEchoAgent("Generalist")))

	agg, err := s.DelegateAndAggregate(context.Background(), []core.Task{
		core.NewTask("first"),
		core.NewTask("second"),
	})
	require.NoError(t, err)
	assert.True(t, agg.Success)
	assert.Equal(t, 2, agg.SuccessfulCount)
	assert.Contains(t, agg.CombinedOutput, "## Execution Summary")
	assert.Contains(t, agg.CombinedOutput, "Tasks completed: 2/2")
}

func TestSwarmUnregisterPromotesNextDefault(t *testing.T) {
	s := New()
	first := newEchoAgent("First")
	second := newEchoAgent("Second")
	require.NoError(t, s.Register(first))
	require.NoError(t, s.Register(second))

	assert.True(t, s.Unregister(first.ID()))

	def, ok := s.Registry().Default()
	require.True(t, ok)
	assert.Equal(t, second.ID(), def.ID())
}
