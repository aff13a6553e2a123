// Package agent contains the executable agent abstraction, the model-backed
// agent implementation and the registry that routes tasks to agents by
// declared capability. The package focuses on three concerns:
//
//  1. Identity + capability plumbing (BaseAgent)
//  2. The iterative tool-calling execution loop (ModelAgent)
//  3. Capability-scored routing with a default fallback (Registry)
//
// Design principles:
//   - No hidden global state; registries are explicit values
//   - Agents are value producers: one Task in, one Result out
//   - Model and tool specifics stay in their own packages to avoid cyclic deps
//
// Execution model: an agent's Execute receives a context and a core.Task,
// drives the language model until it stops requesting tools (or a limit
// trips) and returns a core.Result describing the outcome.
package agent
