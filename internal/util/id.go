package util

import "github.com/google/uuid"

// NewID returns a fresh opaque identifier for tasks, agents and tool calls.
func NewID() string { return uuid.NewString() }
