// Package services contains the core business logic of Nexus.
// Services implement the driving ports and depend only on driven
// ports, never on concrete adapters.
//
// The services are:
//   - ClassifierService: regex task classification and complexity
//   - RouterService: tier selection and preference learning
//   - IndexerService: document ingestion, dedup and retrieval
//   - AssemblerService: context block construction for prompts
//   - ChatService: routed, context-aware conversations
//   - AgentService: tool-augmented request loops
//   - MemoryService: fact extraction and recall
package services
