package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("summarize the report")

	assert.NotEmpty(t, task.ID)
	assert.Len(t, task.ID, 36) // UUID length
	assert.Equal(t, "summarize the report", task.Instruction)
	assert.Equal(t, PriorityNormal, task.Priority)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, DefaultMaxIterations, task.MaxIterations)
	assert.Equal(t, DefaultMaxTokens, task.MaxTokens)
	assert.Equal(t, DefaultTimeout, task.Timeout)
	assert.NotNil(t, task.Metadata)
}

func TestNewTaskOptions(t *testing.T) {
	task := NewTask("triage the incident", func(t *Task) {
		t.Priority = PriorityCritical
		t.MaxIterations = 3
		t.Timeout = 10 * time.Second
	})

	assert.Equal(t, PriorityCritical, task.Priority)
	assert.Equal(t, 3, task.MaxIterations)
	assert.Equal(t, 10*time.Second, task.Timeout)
}

func TestNewTaskIDsUnique(t *testing.T) {
	a := NewTask("one")
	b := NewTask("two")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPriorityWeights(t *testing.T) {
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 5, PriorityNormal.Weight())
	assert.Equal(t, 10, PriorityHigh.Weight())
	assert.Equal(t, 20, PriorityCritical.Weight())
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "low", PriorityLow.String())
	assert.Equal(t, "normal", PriorityNormal.String())
	assert.Equal(t, "high", PriorityHigh.String())
	assert.Equal(t, "critical", PriorityCritical.String())
}
