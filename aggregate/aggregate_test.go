package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmlet/swarmlet/core"
)

func successResult(output string, inTokens, outTokens int) core.Result {
	return core.Result{
		Output:        output,
		Success:       true,
		Status:        core.StatusCompleted,
		InputTokens:   inTokens,
		OutputTokens:  outTokens,
		ExecutionTime: 100 * time.Millisecond,
	}
}

func failedResult(errMsg string) core.Result {
	return core.Result{
		Success: false,
		Status:  core.StatusFailed,
		Error:   errMsg,
	}
}

func TestAggregateCounts(t *testing.T) {
	agg := New().Aggregate([]core.Result{
		successResult("one", 10, 5),
		failedResult("boom"),
		successResult("two", 20, 7),
	})

	assert.Equal(t, 2, agg.SuccessfulCount)
	assert.Equal(t, 1, agg.FailedCount)
	assert.Equal(t, 30, agg.TotalInputTokens)
	assert.Equal(t, 12, agg.TotalOutputTokens)
	assert.Equal(t, 200*time.Millisecond, agg.TotalTime)
	assert.False(t, agg.Success)
}

func TestAggregateAllSucceeded(t *testing.T) {
	agg := New().Aggregate([]core.Result{
		successResult("a", 1, 1),
		successResult("b", 2, 2),
	})

	assert.True(t, agg.Success)
	assert.Equal(t, 0, agg.FailedCount)
	assert.Equal(t, "a\n\n---\n\nb", agg.CombinedOutput)
}

func TestAggregateAllFailed(t *testing.T) {
	agg := New().Aggregate([]core.Result{
		failedResult("one"),
		failedResult("two"),
	})

	assert.False(t, agg.Success)
	assert.Equal(t, 2, agg.FailedCount)
	assert.Zero(t, agg.TotalInputTokens)
	assert.Empty(t, agg.CombinedOutput)
}

func TestAggregateEmpty(t *testing.T) {
	agg := New().Aggregate(nil)

	assert.True(t, agg.Success) // vacuously: no failures
	assert.Zero(t, agg.SuccessfulCount)
	assert.Empty(t, agg.CombinedOutput)
}

func TestSuccessOnlyFiltersFailedOutputs(t *testing.T) {
	results := []core.Result{
		successResult("keep", 0, 0),
		{Success: false, Status: core.StatusFailed, Output: "leak"},
	}

	agg := New().Aggregate(results)
	assert.NotContains(t, agg.CombinedOutput, "leak")
	assert.Contains(t, agg.CombinedOutput, "keep")
}

func TestConcatenateKeepsAllOutputs(t *testing.T) {
	results := []core.Result{
		successResult("keep", 0, 0),
		{Success: false, Status: core.StatusFailed, Output: "partial"},
	}

	agg := New(func(o *Options) { o.Strategy = Concatenate }).Aggregate(results)
	assert.Contains(t, agg.CombinedOutput, "keep")
	assert.Contains(t, agg.CombinedOutput, "partial")
}

func TestCustomBehavesLikeSuccessOnly(t *testing.T) {
	results := []core.Result{
		successResult("keep", 0, 0),
		{Success: false, Status: core.StatusFailed, Output: "leak"},
	}

	custom := New(func(o *Options) { o.Strategy = Custom }).Aggregate(results)
	successOnly := New().Aggregate(results)
	assert.Equal(t, successOnly.CombinedOutput, custom.CombinedOutput)
}

func TestWithSummaryHeader(t *testing.T) {
	agg := New(func(o *Options) { o.Strategy = WithSummary }).Aggregate([]core.Result{
		successResult("alpha", 100, 50),
		failedResult("boom"),
		successResult("beta", 200, 75),
	})

	assert.Contains(t, agg.CombinedOutput, "## Execution Summary")
	assert.Contains(t, agg.CombinedOutput, "Tasks completed: 2/3")
	assert.Contains(t, agg.CombinedOutput, fmt.Sprintf("Total tokens: %d in / %d out", 300, 125))
	assert.Contains(t, agg.CombinedOutput, "alpha")
	assert.Contains(t, agg.CombinedOutput, "beta")
}

func TestByPriorityBucketsEverythingAsNormal(t *testing.T) {
	a := New()
	buckets := a.ByPriority([]core.Result{
		successResult("one", 1, 1),
		failedResult("boom"),
	})

	require.Len(t, buckets, 1)
	normal, ok := buckets[core.PriorityNormal]
	require.True(t, ok)
	assert.Equal(t, 1, normal.SuccessfulCount)
	assert.Equal(t, 1, normal.FailedCount)
}

func TestByPriorityEmpty(t *testing.T) {
	buckets := New().ByPriority(nil)
	assert.Empty(t, buckets)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "concatenate", Concatenate.String())
	assert.Equal(t, "success_only", SuccessOnly.String())
	assert.Equal(t, "with_summary", WithSummary.String())
	assert.Equal(t, "custom", Custom.String())
}
