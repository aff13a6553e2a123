// Package core defines the value types exchanged between the orchestration
// components: tasks, results, conversation messages with their closed block
// set, capabilities and the task status / priority enums.
//
// Everything in this package is an immutable-by-convention value object.
// Tasks and results are passed by copy between the registry, executor and
// aggregator; none of the types carries internal synchronization.
package core
