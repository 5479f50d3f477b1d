package app

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func commandNames(cmd *cobra.Command) []string {
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}

func TestCommands_Registered(t *testing.T) {
	registered := commandNames(rootCmd)
	for _, name := range []string{"dog", "log", "catalog", "insights", "report", "analyze", "plan", "cache", "track", "serve", "mcp"} {
		assert.Contains(t, registered, name, "%s subcommand not registered on rootCmd", name)
	}
}

func TestDogCmd_Subcommands(t *testing.T) {
	registered := commandNames(dogCmd)
	for _, name := range []string{"add", "list", "show", "edit", "rm"} {
		assert.Contains(t, registered, name, "dog %s not registered", name)
	}
}
