// Package executor runs batches of tasks through the agent registry with
// bounded parallelism. Three entry points cover the batch shapes callers
// need: ExecuteAll (unordered), ExecuteOrdered (input order preserved for
// the survivors) and ExecuteWithRetry (serial with re-enqueue on failure).
//
// Admission is gated by a weighted semaphore sized MaxConcurrency; a task
// acquires the gate before its goroutine starts and releases it on
// completion regardless of outcome. In fail-fast mode the first failure
// cancels the context shared by in-flight peers and aborts the batch.
package executor
