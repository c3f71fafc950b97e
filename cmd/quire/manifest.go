package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
)

var manifestPreview bool

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the posts a rendering pass should include, as JSON",
	Long: `Print the generator hand-off as JSON. Drafts are excluded unless --preview
is set. Unregistered authors are reported as warnings, never as failures.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(quire.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		entries, err := svc.Manifest(cmd.Context(), manifestPreview)
		if err != nil {
			fatal("Failed to build manifest", err)
		}

		if err := printJSON(os.Stdout, entries); err != nil {
			fatal("Failed to encode JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().BoolVar(&manifestPreview, "preview", false, "Include drafts")
}
