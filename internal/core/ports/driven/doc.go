// Package driven defines the driven (secondary) ports of the Nexus core.
//
// Driven ports are interfaces the core depends on to reach the outside
// world. Adapters under internal/adapters/driven implement them.
//
// Required ports (the core cannot function without an implementation):
//   - DocumentStore: document metadata persistence
//   - UsageLogStore: model routing history
//   - VectorStore: chunk embedding index
//   - ExtractorRegistry: file type to text extraction
//   - ConfigStore: persisted user configuration
//
// Optional ports (the core degrades gracefully when unavailable):
//   - LLMClient: text generation and chat
//   - MemoryStore, SessionStore, MessageStore: conversational state
package driven
