package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Print a post with its state and resolved author",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(quire.WithReadOnly(true))
		if err != nil {
			fatal("Failed to open site", err)
		}
		ctx := cmd.Context()

		post, err := svc.GetPost(ctx, args[0])
		if err != nil {
			fatal("Failed to read post", err)
		}
		author, resolved := svc.ResolveAuthor(ctx, post)

		if showJSON {
			out := struct {
				postView
				AuthorName string `json:"author_name,omitempty"`
				Body       string `json:"body"`
			}{postView: viewOf(post), Body: post.Body()}
			if resolved {
				out.AuthorName = author.Name
			}
			if err := printJSON(os.Stdout, out); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Printf("Title:   %s\n", post.Title())
		fmt.Printf("Slug:    %s\n", post.Slug())
		fmt.Printf("State:   %s\n", post.State())
		fmt.Printf("Created: %s\n", post.Created().Format("2006-01-02 15:04:05 MST"))
		switch {
		case resolved:
			fmt.Printf("Author:  %s (%s)\n", author.Name, author.Handle)
		case post.Author() != "":
			fmt.Printf("Author:  %s (unregistered)\n", post.Author())
		}
		if tags := post.Tags(); len(tags) > 0 {
			fmt.Printf("Tags:    %s\n", strings.Join(tags, ", "))
		}
		if post.Summary() != "" {
			fmt.Printf("Summary: %s\n", post.Summary())
		}
		fmt.Println()
		fmt.Print(post.Body())
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
