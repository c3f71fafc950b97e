package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/core"
)

var (
	newAuthor   string
	newBody     string
	newBodyFile string
	newSummary  string
	newTags     string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a draft post",
	Long: `Create a draft post. The slug is derived from the title and never changes.
The post stays out of the public site until it is published.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := strings.Join(args, " ")

		body, _, err := readBody(newBody, cmd.Flags().Changed("body"), newBodyFile, os.Stdin)
		if err != nil {
			fatal("Failed to read body", err)
		}

		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}

		var opts []core.EditOption
		if newAuthor != "" {
			opts = append(opts, core.WithAuthor(newAuthor))
		}
		if newSummary != "" {
			opts = append(opts, core.WithSummary(newSummary))
		}
		if newTags != "" {
			opts = append(opts, core.WithTags(splitTags(newTags)...))
		}
		if body != "" {
			opts = append(opts, core.WithBody(body))
		}

		post, err := svc.CreatePost(commandContext(), title, opts...)
		if err != nil {
			fatal("Failed to create post", err)
		}

		fmt.Printf("Created draft '%s'.\n", post.Slug())
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newAuthor, "author", "a", "", "Author handle")
	newCmd.Flags().StringVar(&newBody, "body", "", "Post body")
	newCmd.Flags().StringVar(&newBodyFile, "body-file", "", "Read the body from a file (- for stdin)")
	newCmd.Flags().StringVar(&newSummary, "summary", "", "Listing summary")
	newCmd.Flags().StringVar(&newTags, "tags", "", "Comma separated tags")
	addMessageFlag(newCmd)
}
