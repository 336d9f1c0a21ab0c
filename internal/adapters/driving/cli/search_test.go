package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "revenue")
	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "Quarterly Report")
	assert.Contains(t, out, "0.91")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "revenue", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "Quarterly Report"`)

	searchJSON = false
}

func TestSearchCmd_ErrorsWithoutServices(t *testing.T) {
	old := indexService
	indexService = nil
	defer func() { indexService = old }()

	_, err := execute("search", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
