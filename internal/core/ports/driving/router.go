package driving

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// RouterService classifies requests and picks models for them.
type RouterService interface {
	// Route classifies a message and decides which model should
	// serve it. A non-empty override wins and is recorded for
	// preference learning.
	Route(ctx context.Context, message, override string) (*domain.RoutingDecision, error)

	// Feedback records whether a routed response was good, keyed
	// by the usage record of the decision.
	Feedback(ctx context.Context, usageID string, good bool) error

	// Models reports the configured tier-to-model mapping.
	Models(ctx context.Context) (map[domain.Tier]string, error)
}
