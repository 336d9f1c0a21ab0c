package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range memoryCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "forget")
}

func TestMemoryListCmd_PrintsMemories(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("memory", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lives in Lisbon")
	assert.Contains(t, out, "mem-1")
}

func TestMemoryAddCmd_Remembers(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("memory", "add", "Allergic to peanuts", "--type", "fact")
	require.NoError(t, err)
	assert.Contains(t, out, "Remembered")
	assert.Contains(t, out, "Allergic to peanuts")

	memoryType = "fact"
}

func TestMemoryAddCmd_RejectsInvalidType(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("memory", "add", "something", "--type", "hunch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid memory type")

	memoryType = "fact"
}

func TestMemoryForgetCmd_Forgets(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("memory", "forget", "mem-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Forgotten.")
}

func TestModelsCmd_PrintsTiers(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("models")
	require.NoError(t, err)
	assert.Contains(t, out, "fast")
	assert.Contains(t, out, "llama3.1:8b")
	assert.Contains(t, out, "quality")
}

func TestModelsRouteCmd_PrintsDecision(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("models", "route", "good morning")
	require.NoError(t, err)
	assert.Contains(t, out, "Task: chat")
	assert.Contains(t, out, "Model: llama3.1:8b")
	assert.Contains(t, out, "Reason:")
}

func TestModelsFeedbackCmd_Records(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("models", "feedback", "usage-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback recorded.")
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "nexus version")
}

func TestWatchCmd_ErrorsWithoutWatcher(t *testing.T) {
	old := watchRunner
	watchRunner = nil
	defer func() { watchRunner = old }()

	_, err := execute("watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no watch folders configured")
}
