// Package aggregate combines batch execution results into one summary view
// under a selectable strategy.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/swarmlet/swarmlet/core"
)

// OutputSeparator joins individual task outputs in the combined view.
const OutputSeparator = "\n\n---\n\n"

// Strategy selects how results are combined.
type Strategy int

const (
	// Concatenate combines the outputs of all results as-is, including
	// failed ones (whose outputs are empty by construction).
	Concatenate Strategy = iota
	// SuccessOnly combines only successful outputs. This is the default.
	SuccessOnly
	// WithSummary is SuccessOnly with an execution summary header prepended.
	WithSummary
	// Custom currently behaves like SuccessOnly; it is the extension point
	// for caller-defined filters.
	Custom
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case Concatenate:
		return "concatenate"
	case WithSummary:
		return "with_summary"
	case Custom:
		return "custom"
	default:
		return "success_only"
	}
}

// AggregatedResult is the combined view over a result list. Counts and token
// and time totals always cover the full input list; the strategy only shapes
// CombinedOutput.
type AggregatedResult struct {
	Results           []core.Result
	SuccessfulCount   int
	FailedCount       int
	CombinedOutput    string
	TotalInputTokens  int
	TotalOutputTokens int
	TotalTime         time.Duration
	Success           bool
}

// Options configures an Aggregator.
type Options struct {
	Strategy Strategy
}

// Aggregator combines result lists under its configured strategy.
type Aggregator struct {
	strategy Strategy
}

// New creates an Aggregator; the default strategy is SuccessOnly.
func New(optFns ...func(o *Options)) *Aggregator {
	opts := Options{Strategy: SuccessOnly}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Aggregator{strategy: opts.Strategy}
}

// Strategy returns the configured strategy.
func (a *Aggregator) Strategy() Strategy { return a.strategy }

// Aggregate combines results into one AggregatedResult.
func (a *Aggregator) Aggregate(results []core.Result) AggregatedResult {
	agg := AggregatedResult{Results: results}

	var outputs []string
	for _, r := range results {
		if r.Success {
			agg.SuccessfulCount++
		} else {
			agg.FailedCount++
		}
		agg.TotalInputTokens += r.InputTokens
		agg.TotalOutputTokens += r.OutputTokens
		agg.TotalTime += r.ExecutionTime

		if r.Success || a.strategy == Concatenate {
			outputs = append(outputs, r.Output)
		}
	}

	agg.CombinedOutput = strings.Join(outputs, OutputSeparator)
	agg.Success = agg.FailedCount == 0

	if a.strategy == WithSummary {
		agg.CombinedOutput = summaryHeader(agg, len(results)) + agg.CombinedOutput
	}
	return agg
}

// ByPriority buckets aggregation per task priority. Result does not carry
// the originating task's priority, so every result currently lands in the
// Normal bucket. Known limitation; fixing it requires widening Result.
func (a *Aggregator) ByPriority(results []core.Result) map[core.TaskPriority]AggregatedResult {
	buckets := make(map[core.TaskPriority][]core.Result)
	for _, r := range results {
		buckets[core.PriorityNormal] = append(buckets[core.PriorityNormal], r)
	}

	out := make(map[core.TaskPriority]AggregatedResult, len(buckets))
	for priority, rs := range buckets {
		out[priority] = a.Aggregate(rs)
	}
	return out
}

func summaryHeader(agg AggregatedResult, total int) string {
	var sb strings.Builder
	sb.WriteString("## Execution Summary\n")
	fmt.Fprintf(&sb, "Tasks completed: %d/%d\n", agg.SuccessfulCount, total)
	fmt.Fprintf(&sb, "Total tokens: %d in / %d out\n", agg.TotalInputTokens, agg.TotalOutputTokens)
	fmt.Fprintf(&sb, "Total time: %dms\n\n", agg.TotalTime.Milliseconds())
	return sb.String()
}
