// Package swarmlet provides a high-level façade over the sub-agent
// orchestration engine: an agent registry with capability routing, a bounded
// parallel executor, a delegator and a result aggregator. Most applications
// interact with this package by:
//  1. Creating a Swarm via New() (optionally tuning concurrency and policy)
//  2. Registering one or more agents (model-backed or custom)
//  3. Delegating tasks one at a time (Delegate) or in batches
//     (DelegateParallel / DelegateAndAggregate)
//
// The façade wires the underlying packages while keeping setup concise. All
// defaults are safe for local development and testing; production callers
// typically supply a structured logger and tuned limits.
package swarmlet

import (
	"context"

	"github.com/swarmlet/swarmlet/agent"
	"github.com/swarmlet/swarmlet/aggregate"
	"github.com/swarmlet/swarmlet/core"
	"github.com/swarmlet/swarmlet/delegate"
	"github.com/swarmlet/swarmlet/executor"
	"github.com/swarmlet/swarmlet/logging"
)

// Options configures the Swarm instance.
type Options struct {
	// MaxConcurrency bounds simultaneously in-flight task executions per
	// batch call.
	MaxConcurrency int

	// FailFast aborts batch delegation on the first task failure and cancels
	// in-flight peers.
	FailFast bool

	// MaxRetries caps re-enqueues per task in retrying delegation.
	MaxRetries int

	// Strategy selects how batch results are combined.
	Strategy aggregate.Strategy

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Swarm aggregates the registry, delegator, executor and aggregator behind
// one entry point.
type Swarm struct {
	registry   *agent.Registry
	executor   *executor.ParallelExecutor
	delegator  *delegate.Delegator
	aggregator *aggregate.Aggregator
}

// New creates a Swarm with optional overrides.
func New(optFns ...func(o *Options)) *Swarm {
	opts := Options{
		MaxConcurrency: executor.DefaultMaxConcurrency,
		MaxRetries:     executor.DefaultMaxRetries,
		Strategy:       aggregate.SuccessOnly,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	registry := agent.NewRegistry(func(o *agent.RegistryOptions) {
		o.Logger = opts.Logger
	})
	exec := executor.New(registry, func(o *executor.Options) {
		o.MaxConcurrency = opts.MaxConcurrency
		o.FailFast = opts.FailFast
		o.MaxRetries = opts.MaxRetries
		o.Logger = opts.Logger
	})
	delegator := delegate.New(registry, exec, func(o *delegate.Options) {
		o.Logger = opts.Logger
	})
	aggregator := aggregate.New(func(o *aggregate.Options) {
		o.Strategy = opts.Strategy
	})

	return &Swarm{
		registry:   registry,
		executor:   exec,
		delegator:  delegator,
		aggregator: aggregator,
	}
}

// Register adds an agent to the swarm's registry.
func (s *Swarm) Register(a agent.Agent) error { return s.registry.Register(a) }

// Unregister removes an agent by id.
func (s *Swarm) Unregister(id string) bool { return s.registry.Unregister(id) }

// Registry exposes the underlying agent registry.
func (s *Swarm) Registry() *agent.Registry { return s.registry }

// Executor exposes the underlying parallel executor.
func (s *Swarm) Executor() *executor.ParallelExecutor { return s.executor }

// Delegate routes one task to the best matching agent.
func (s *Swarm) Delegate(ctx context.Context, task core.Task) (core.Result, error) {
	return s.delegator.Delegate(ctx, task)
}

// DelegateTo routes one task to a specific agent by id.
func (s *Swarm) DelegateTo(ctx context.Context, agentID string, task core.Task) (core.Result, error) {
	return s.delegator.DelegateTo(ctx, agentID, task)
}

// DelegateParallel runs a batch of tasks with bounded concurrency.
func (s *Swarm) DelegateParallel(ctx context.Context, tasks []core.Task) ([]core.Result, error) {
	return s.delegator.DelegateParallel(ctx, tasks)
}

// DelegateAndAggregate runs a batch of tasks and combines the results under
// the configured aggregation strategy.
func (s *Swarm) DelegateAndAggregate(ctx context.Context, tasks []core.Task) (aggregate.AggregatedResult, error) {
	results, err := s.delegator.DelegateParallel(ctx, tasks)
	if err != nil {
		return aggregate.AggregatedResult{}, err
	}
	return s.aggregator.Aggregate(results), nil
}
