package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCommand_Metadata(t *testing.T) {
	assert.Equal(t, "category", Cmd.Use)
	assert.Contains(t, Cmd.Short, "category tree")
	assert.Contains(t, Cmd.Long, "cycles are rejected")
}

func TestCategoryCommand_SubCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range Cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["add"])
	assert.True(t, names["list"])
	assert.True(t, names["set-parent"])
}

func TestCategoryCommand_Args(t *testing.T) {
	parentFlag := addCmd.Flags().Lookup("parent")
	require.NotNil(t, parentFlag)
	assert.Equal(t, "p", parentFlag.Shorthand)

	assert.Error(t, setParentCmd.Args(setParentCmd, []string{}))
	assert.NoError(t, setParentCmd.Args(setParentCmd, []string{"Groceries"}))
	assert.NoError(t, setParentCmd.Args(setParentCmd, []string{"Groceries", "Food"}))
	assert.Error(t, setParentCmd.Args(setParentCmd, []string{"a", "b", "c"}))
}
