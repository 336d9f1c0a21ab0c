package driven

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// UsageLogStore records which model served each task so the router can
// learn user preferences from overrides.
type UsageLogStore interface {
	// Append records one routing decision.
	Append(ctx context.Context, usage *domain.ModelUsage) error

	// RecentOverrides returns up to limit of the most recent
	// override records for a task, newest first.
	RecentOverrides(ctx context.Context, task domain.TaskType, limit int) ([]*domain.ModelUsage, error)

	// CountOverrides reports how many overrides exist for a task.
	CountOverrides(ctx context.Context, task domain.TaskType) (int, error)

	// SetFeedback records user feedback on a usage record.
	SetFeedback(ctx context.Context, id, feedback string) error
}
