package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

func TestRegistry_Execute(t *testing.T) {
	r := NewRegistry(NewCalculator())

	result, err := r.Execute(context.Background(), domain.ToolCall{
		Tool:       "calculator",
		Parameters: map[string]any{"expression": "2 + 3 * 4"},
	})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(14), m["result"])
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	r := NewRegistry(NewCalculator())

	_, err := r.Execute(context.Background(), domain.ToolCall{
		Tool:       "shell",
		Parameters: map[string]any{"command": "rm -rf /"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_ExecuteRejectsUnknownParameter(t *testing.T) {
	r := NewRegistry(NewCalculator())

	_, err := r.Execute(context.Background(), domain.ToolCall{
		Tool:       "calculator",
		Parameters: map[string]any{"expression": "1+1", "shell": "true"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_ExecuteRejectsMissingRequired(t *testing.T) {
	r := NewRegistry(NewCalculator())

	_, err := r.Execute(context.Background(), domain.ToolCall{
		Tool:       "calculator",
		Parameters: map[string]any{},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(NewCalculator(), NewDateTime())
	assert.Equal(t, []string{"calculator", "datetime"}, r.Names())
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry(NewCalculator())

	desc := r.Describe()
	assert.Contains(t, desc, "calculator:")
	assert.Contains(t, desc, "expression (string, required)")
}
