// Package domain defines the core business entities for Nexus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexed document with metadata
//   - Chunk: A retrieval unit derived from a document
//   - TaskType: A category describing the kind of request a query represents
//   - Memory: A stored fact about the user
//   - Session and Message: A persisted conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
