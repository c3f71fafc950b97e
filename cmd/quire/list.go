package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
	"github.com/aretw0/quire/pkg/core"
)

var (
	listJSON   bool
	listDrafts bool
	listTag    string
	listAuthor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Long:  `List published posts. --drafts is the preview view and includes drafts.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(quire.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open site", err)
		}

		posts, err := svc.ListPosts(cmd.Context(), core.ListOptions{
			IncludeDrafts: listDrafts,
			Author:        listAuthor,
			Tag:           listTag,
		})
		if err != nil {
			fatal("Failed to list posts", err)
		}

		if listJSON {
			views := make([]postView, 0, len(posts))
			for _, p := range posts {
				views = append(views, viewOf(p))
			}
			if err := printJSON(os.Stdout, views); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		if err := printPosts(os.Stdout, posts); err != nil {
			fatal("Failed to print posts", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listDrafts, "drafts", false, "Include drafts (preview)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter posts by tag")
	listCmd.Flags().StringVar(&listAuthor, "author", "", "Filter posts by author handle")
}
