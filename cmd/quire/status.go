package main

import (
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the service and repository state as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(quire.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		out := map[string]any{
			svc.ComponentType(): svc.State(),
		}
		if c, ok := svc.Repository().(introspection.Component); ok {
			if s, ok := c.(introspection.Introspectable); ok {
				out[c.ComponentType()] = s.State()
			}
		}

		if err := printJSON(os.Stdout, out); err != nil {
			fatal("Failed to encode JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
