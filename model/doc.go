// Package model defines the provider-agnostic language-model capability the
// agent execution loop runs against.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize tool calling across vendors (tool_use blocks in, stop reasons out)
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so agents remain decoupled from vendor SDKs.
package model
