package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <slug>",
	Short: "Make a draft part of the public site",
	Long: `Mark a post as published. Publishing an already published post changes
nothing. The next deploy hands it to the generator as public content.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}

		post, err := svc.PublishPost(commandContext(), args[0])
		if err != nil {
			fatal("Failed to publish post", err)
		}

		fmt.Printf("Published '%s'.\n", post.Slug())
	},
}

var unpublishCmd = &cobra.Command{
	Use:   "unpublish <slug>",
	Short: "Retract a published post back to draft",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}

		post, err := svc.UnpublishPost(commandContext(), args[0])
		if err != nil {
			fatal("Failed to unpublish post", err)
		}

		fmt.Printf("Retracted '%s' to draft.\n", post.Slug())
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addMessageFlag(publishCmd)
	rootCmd.AddCommand(unpublishCmd)
	addMessageFlag(unpublishCmd)
}
