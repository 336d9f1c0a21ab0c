package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Covers missing files, documents, sessions, memories and tools.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Covers bad chunk configuration, malformed expressions and
	// unknown tool parameters. Always reported verbatim, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable indicates the inference endpoint or the
	// vector store is unreachable or returned a non-200 status.
	// The caller decides whether to retry; this subsystem never does.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPermissionDenied indicates file access outside the
	// allow-listed directories. Always reported verbatim.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDivisionByZero indicates an arithmetic evaluation error.
	// Distinct from ErrInvalidInput: the expression parsed fine but
	// cannot be evaluated.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrMaxIterations indicates the agent loop hit its iteration cap
	// with tool calls still pending. Surfaced as an outcome, not a failure.
	ErrMaxIterations = errors.New("maximum iterations reached")

	// ErrLLMUnavailable indicates no LLM client is configured.
	// Chat and agent features are disabled without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorIndexUnavailable indicates no vector store is configured.
	// Document retrieval is disabled without one.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
