package domain

import "time"

// TaskType is a category describing the kind of request a query represents.
type TaskType string

// Available task types.
const (
	TaskChat             TaskType = "chat"
	TaskQuestion         TaskType = "question"
	TaskCode             TaskType = "code"
	TaskWriting          TaskType = "writing"
	TaskCreative         TaskType = "creative"
	TaskEmail            TaskType = "email"
	TaskResume           TaskType = "resume"
	TaskDocumentAnalysis TaskType = "document_analysis"
	TaskRAGQuery         TaskType = "rag_query"
	TaskSummary          TaskType = "summary"
)

// TaskPriority is the fixed tie-break order for classification.
// When two task types score equally, the one listed first wins.
// This replaces reliance on any container iteration order: the order
// is an explicit, documented contract.
var TaskPriority = []TaskType{
	TaskCode,
	TaskEmail,
	TaskResume,
	TaskCreative,
	TaskWriting,
	TaskDocumentAnalysis,
	TaskRAGQuery,
	TaskSummary,
	TaskQuestion,
	TaskChat,
}

// IsValid returns true if the task type is recognised.
func (t TaskType) IsValid() bool {
	for _, known := range TaskPriority {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t TaskType) String() string {
	return string(t)
}

// Complexity is the requested effort level detected in a query.
type Complexity string

// Available complexity levels.
const (
	ComplexityLow    Complexity = "low"
	ComplexityNormal Complexity = "normal"
	ComplexityHigh   Complexity = "high"
)

// Tier is a named quality/speed class of language model.
type Tier string

// Available model tiers.
const (
	// TierFast favours latency over depth.
	TierFast Tier = "fast"

	// TierBalanced trades some speed for quality.
	TierBalanced Tier = "balanced"

	// TierDocument is tuned for long-context document work.
	TierDocument Tier = "document"

	// TierQuality favours output quality regardless of latency.
	TierQuality Tier = "quality"
)

// Classification is the transient result of scoring a query.
// Computed per query, never persisted.
type Classification struct {
	// Task is the winning task type.
	Task TaskType

	// Scores holds the pattern match count per candidate task type.
	Scores map[TaskType]int

	// Complexity is the independently assessed effort level.
	Complexity Complexity
}

// RoutingDecision is the transient outcome of model selection.
type RoutingDecision struct {
	// Task is the classified task type.
	Task TaskType

	// Model is the selected model identifier.
	Model string

	// Reason is a human-readable rationale for the selection.
	Reason string
}

// ModelUsage is an append-only usage record for routing decisions.
// It is the only persisted artifact from routing and feeds the
// router's learned-preference table.
type ModelUsage struct {
	// ID is the unique identifier for the record.
	ID string

	// Task is the classified task type.
	Task TaskType

	// AutoModel is the model the router selected.
	AutoModel string

	// OverrideModel is the model the user chose instead, if any.
	OverrideModel string

	// WasOverride is true when the user overrode the auto selection.
	WasOverride bool

	// Feedback is an optional user feedback tag.
	Feedback string

	// CreatedAt is when the record was appended.
	CreatedAt time.Time
}
