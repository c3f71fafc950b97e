package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/core"
)

var deployCmd = &cobra.Command{
	Use:     "deploy",
	Aliases: []string{"sync"},
	Short:   "Pull and push the site so CI can build it",
	Long: `Integrate remote changes (git pull --rebase) and push local commits.
The push is the hand-off: building and publishing the site is CI's job.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Failed to open site", err)
		}

		fmt.Println("Deploying...")
		if err := svc.Sync(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Deploy failed: %v\n", err)
			if errors.Is(err, core.ErrNotSyncable) {
				fmt.Println("Tip: deploy needs git; enable versioning in .quire.yml.")
			} else {
				fmt.Println("Tip: Ensure you have a remote configured ('git remote add origin <url>') and you are online.")
				fmt.Println("If there are merge conflicts, resolve them in the repository and run deploy again.")
			}
			os.Exit(1)
		}

		fmt.Println("Deploy hand-off completed.")
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
