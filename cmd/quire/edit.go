package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/core"
)

var (
	editAuthor   string
	editTitle    string
	editBody     string
	editBodyFile string
)

var editCmd = &cobra.Command{
	Use:   "edit <slug>",
	Short: "Change the body, title or author of a post",
	Long: `Change the body, title or author of a post. The publication state is
never touched: editing a published post keeps it published.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]

		body, hasBody, err := readBody(editBody, cmd.Flags().Changed("body"), editBodyFile, os.Stdin)
		if err != nil {
			fatal("Failed to read body", err)
		}

		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}
		ctx := commandContext()

		if !hasBody {
			current, err := svc.GetPost(ctx, slug)
			if err != nil {
				fatal("Failed to read post", err)
			}
			body = current.Body()
		}

		var opts []core.EditOption
		if cmd.Flags().Changed("author") {
			opts = append(opts, core.WithAuthor(editAuthor))
		}
		if editTitle != "" {
			opts = append(opts, core.WithTitle(editTitle))
		}

		post, err := svc.EditPost(ctx, slug, body, opts...)
		if err != nil {
			fatal("Failed to edit post", err)
		}

		fmt.Printf("Edited '%s' (%s).\n", post.Slug(), post.State())
	},
}

var (
	describeSummary string
	describeTags    string
)

var describeCmd = &cobra.Command{
	Use:   "describe <slug>",
	Short: "Set the summary and tags shown in listings",
	Long: `Set the summary and tags shown in listings. Only the flags given are
changed: --tags "" clears the tags and leaves the summary alone.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}

		var opts []core.EditOption
		if cmd.Flags().Changed("summary") {
			opts = append(opts, core.WithSummary(describeSummary))
		}
		if cmd.Flags().Changed("tags") {
			opts = append(opts, core.WithTags(splitTags(describeTags)...))
		}
		if len(opts) == 0 {
			fatal("Nothing to describe", fmt.Errorf("set --summary, --tags or both"))
		}

		post, err := svc.DescribePost(commandContext(), args[0], opts...)
		if err != nil {
			fatal("Failed to describe post", err)
		}

		fmt.Printf("Described '%s' with %d tag(s).\n", post.Slug(), len(post.Tags()))
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editAuthor, "author", "a", "", "Author handle (empty clears it)")
	editCmd.Flags().StringVar(&editTitle, "title", "", "New display title (the slug stays)")
	editCmd.Flags().StringVar(&editBody, "body", "", "New body (--body \"\" clears it)")
	editCmd.Flags().StringVar(&editBodyFile, "body-file", "", "Read the new body from a file (- for stdin)")
	addMessageFlag(editCmd)

	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&describeSummary, "summary", "", "Listing summary")
	describeCmd.Flags().StringVar(&describeTags, "tags", "", "Comma separated tags")
	addMessageFlag(describeCmd)
}
