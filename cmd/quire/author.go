package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
	"github.com/aretw0/quire/pkg/core"
)

var (
	authorName   string
	authorEmail  string
	authorBio    string
	authorAvatar string
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Manage the author registry",
}

var authorAddCmd = &cobra.Command{
	Use:   "add <handle>",
	Short: "Register an author (existing records are never overwritten)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}

		meta := core.Metadata{}
		for key, val := range map[string]string{"email": authorEmail, "bio": authorBio, "avatar": authorAvatar} {
			if val != "" {
				meta[key] = val
			}
		}

		a := core.Author{Handle: args[0], Name: authorName}
		if len(meta) > 0 {
			a.Metadata = meta
		}

		if err := svc.RegisterAuthor(commandContext(), a); err != nil {
			fatal("Failed to register author", err)
		}
		fmt.Printf("Registered author '%s'.\n", a.Handle)
	},
}

var authorListJSON bool

var authorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered authors",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(quire.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		authors, err := svc.ListAuthors(cmd.Context())
		if err != nil {
			fatal("Failed to list authors", err)
		}

		if authorListJSON {
			if err := printJSON(os.Stdout, authors); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "HANDLE\tNAME")
		for _, a := range authors {
			fmt.Fprintf(tw, "%s\t%s\n", a.Handle, a.Name)
		}
		tw.Flush()
	},
}

var authorShowCmd = &cobra.Command{
	Use:   "show <handle>",
	Short: "Print an author record as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(quire.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		a, err := svc.GetAuthor(cmd.Context(), args[0])
		if err != nil {
			fatal("Failed to read author", err)
		}
		if err := printJSON(os.Stdout, a); err != nil {
			fatal("Failed to encode JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(authorCmd)

	authorCmd.AddCommand(authorAddCmd)
	authorAddCmd.Flags().StringVar(&authorName, "name", "", "Display name")
	authorAddCmd.Flags().StringVar(&authorEmail, "email", "", "Contact email")
	authorAddCmd.Flags().StringVar(&authorBio, "bio", "", "Short biography")
	authorAddCmd.Flags().StringVar(&authorAvatar, "avatar", "", "Avatar URL or path")
	authorAddCmd.MarkFlagRequired("name")
	addMessageFlag(authorAddCmd)

	authorCmd.AddCommand(authorListCmd)
	authorListCmd.Flags().BoolVar(&authorListJSON, "json", false, "Output in JSON format")

	authorCmd.AddCommand(authorShowCmd)
}
