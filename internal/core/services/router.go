package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driving"
	"github.com/aurelia-labs/nexus-cli/internal/logger"
)

// Ensure RouterService implements the interface.
var _ driving.RouterService = (*RouterService)(nil)

// Preference learning thresholds: a preference forms once a task has
// at least minOverrides overrides and one model accounts for at least
// minRepeat of the last overrideWindow.
const (
	minOverrides   = 3
	minRepeat      = 2
	overrideWindow = 10
)

// staticTiers maps task types to their default model tier.
var staticTiers = map[domain.TaskType]domain.Tier{
	domain.TaskChat:             domain.TierFast,
	domain.TaskQuestion:         domain.TierFast,
	domain.TaskCode:             domain.TierFast,
	domain.TaskSummary:          domain.TierDocument,
	domain.TaskDocumentAnalysis: domain.TierDocument,
	domain.TaskRAGQuery:         domain.TierDocument,
	domain.TaskWriting:          domain.TierQuality,
	domain.TaskCreative:         domain.TierQuality,
	domain.TaskEmail:            domain.TierQuality,
	domain.TaskResume:           domain.TierQuality,
}

// RouterService selects a model for each request and learns user
// preferences from repeated overrides.
type RouterService struct {
	classifier *ClassifierService
	usage      driven.UsageLogStore
	settings   domain.Settings

	mu    sync.RWMutex
	prefs map[domain.TaskType]string
}

// NewRouterService creates a new router.
func NewRouterService(classifier *ClassifierService, usage driven.UsageLogStore, settings domain.Settings) *RouterService {
	return &RouterService{
		classifier: classifier,
		usage:      usage,
		settings:   settings,
		prefs:      make(map[domain.TaskType]string),
	}
}

// LoadPreferences rebuilds the learned preference table from the usage
// log. Called once at startup so preferences survive restarts.
func (s *RouterService) LoadPreferences(ctx context.Context) error {
	if s.usage == nil {
		return nil
	}
	for _, task := range domain.TaskPriority {
		if err := s.relearn(ctx, task); err != nil {
			return fmt.Errorf("load preferences for %s: %w", task, err)
		}
	}
	return nil
}

// Route classifies a message and decides which model serves it.
// A non-empty override wins outright and feeds preference learning.
func (s *RouterService) Route(ctx context.Context, message, override string) (*domain.RoutingDecision, error) {
	classification := s.classifier.Classify(message)
	task := classification.Task

	auto, reason := s.selectModel(classification)

	decision := &domain.RoutingDecision{Task: task, Model: auto, Reason: reason}

	record := &domain.ModelUsage{
		ID:        uuid.New().String(),
		Task:      task,
		AutoModel: auto,
		CreatedAt: time.Now(),
	}

	if override != "" && override != auto {
		record.OverrideModel = override
		record.WasOverride = true
		decision.Model = override
		decision.Reason = fmt.Sprintf("User override: %s instead of %s", override, auto)
	}

	if s.usage != nil {
		if err := s.usage.Append(ctx, record); err != nil {
			return nil, fmt.Errorf("record usage: %w", err)
		}
		if record.WasOverride {
			if err := s.relearn(ctx, task); err != nil {
				logger.Warn("Preference learning failed: %v", err)
			}
		}
	}

	logger.Debug("Routed %s to %s (%s)", task, decision.Model, decision.Reason)
	return decision, nil
}

// Feedback tags a usage record as good or bad.
func (s *RouterService) Feedback(ctx context.Context, usageID string, good bool) error {
	if s.usage == nil {
		return domain.ErrNotFound
	}
	feedback := "bad"
	if good {
		feedback = "good"
	}
	return s.usage.SetFeedback(ctx, usageID, feedback)
}

// Models reports the configured tier-to-model mapping.
func (s *RouterService) Models(_ context.Context) (map[domain.Tier]string, error) {
	out := make(map[domain.Tier]string, len(s.settings.Models))
	for tier, model := range s.settings.Models {
		out[tier] = model
	}
	return out, nil
}

// selectModel picks the model for a classification and explains why.
func (s *RouterService) selectModel(c domain.Classification) (string, string) {
	task := c.Task

	reason := fmt.Sprintf("Detected %s task based on query patterns", task)
	if len(c.Scores) == 0 || c.Scores[task] == 0 {
		reason = "General conversation (no specific task patterns detected)"
	}

	// A learned preference beats every other rule.
	s.mu.RLock()
	pref, ok := s.prefs[task]
	s.mu.RUnlock()
	if ok {
		return pref, fmt.Sprintf("Learned preference: you usually pick %s for %s tasks", pref, task)
	}

	// High complexity always gets the quality tier.
	if c.Complexity == domain.ComplexityHigh {
		return s.settings.ModelFor(domain.TierQuality), reason + " - using high-quality model for detailed output"
	}

	tier, ok := staticTiers[task]
	if !ok {
		tier = domain.TierFast
	}

	// Quick drafts drop writing tasks down a tier.
	if c.Complexity == domain.ComplexityLow && (task == domain.TaskWriting || task == domain.TaskCreative) {
		tier = domain.TierBalanced
		reason += " - using balanced model for quick draft"
	}

	return s.settings.ModelFor(tier), reason
}

// relearn recomputes the preference for one task from its recent
// override history.
func (s *RouterService) relearn(ctx context.Context, task domain.TaskType) error {
	count, err := s.usage.CountOverrides(ctx, task)
	if err != nil {
		return err
	}
	if count < minOverrides {
		return nil
	}

	recent, err := s.usage.RecentOverrides(ctx, task, overrideWindow)
	if err != nil {
		return err
	}

	tally := make(map[string]int)
	for _, u := range recent {
		tally[u.OverrideModel]++
	}

	best, bestCount := "", 0
	for model, n := range tally {
		if n > bestCount {
			best, bestCount = model, n
		}
	}

	if bestCount >= minRepeat {
		s.mu.Lock()
		s.prefs[task] = best
		s.mu.Unlock()
		logger.Debug("Learned preference for %s: %s (%d of last %d overrides)", task, best, bestCount, len(recent))
	}
	return nil
}
