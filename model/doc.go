// Package model defines the provider‑agnostic chat-model boundary used by
// chains, memory strategies and the agent executor.
//
// Core goals:
//   - A single synchronous call shape: ordered messages in, one assistant message out
//   - One error convention for every adapter (see Error)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement ChatModel in sub-packages so
// higher layers remain decoupled from vendor SDKs.
package model
