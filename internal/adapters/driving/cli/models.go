package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

var feedbackBad bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the tier-to-model mapping",
	RunE:  runModels,
}

var modelsRouteCmd = &cobra.Command{
	Use:   "route [message]",
	Short: "Show which model a message would be routed to",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsRoute,
}

var modelsFeedbackCmd = &cobra.Command{
	Use:   "feedback [usage-id]",
	Short: "Rate a past routing decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsFeedback,
}

func init() {
	modelsFeedbackCmd.Flags().BoolVar(&feedbackBad, "bad", false, "mark the decision as bad instead of good")

	modelsCmd.AddCommand(modelsRouteCmd)
	modelsCmd.AddCommand(modelsFeedbackCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if routerService == nil {
		return errors.New("router service not configured")
	}

	models, err := routerService.Models(context.Background())
	if err != nil {
		return fmt.Errorf("list models failed: %w", err)
	}

	cmd.Println("Model tiers:")
	for _, tier := range []domain.Tier{domain.TierFast, domain.TierBalanced, domain.TierDocument, domain.TierQuality} {
		cmd.Printf("  %-10s %s\n", tier, models[tier])
	}
	return nil
}

func runModelsRoute(cmd *cobra.Command, args []string) error {
	if routerService == nil {
		return errors.New("router service not configured")
	}

	decision, err := routerService.Route(context.Background(), args[0], "")
	if err != nil {
		return fmt.Errorf("route failed: %w", err)
	}

	cmd.Printf("Task: %s\n", decision.Task)
	cmd.Printf("Model: %s\n", decision.Model)
	cmd.Printf("Reason: %s\n", decision.Reason)
	return nil
}

func runModelsFeedback(cmd *cobra.Command, args []string) error {
	if routerService == nil {
		return errors.New("router service not configured")
	}

	if err := routerService.Feedback(context.Background(), args[0], !feedbackBad); err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}
	cmd.Println("Feedback recorded.")
	return nil
}
