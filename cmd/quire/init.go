package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
	"github.com/aretw0/quire/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a site (layout, .quire.yml, git init)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := siteDir
		if len(args) == 1 {
			dir = args[0]
		}
		root, err := filepath.Abs(dir)
		if err != nil {
			fatal("Failed to resolve directory", err)
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			fatal("Failed to create directory", err)
		}

		cfg, err := loadConfig(root)
		if err != nil {
			fatal("Failed to load config", err)
		}

		if _, err := quire.New(root,
			quire.WithConfig(*cfg),
			quire.WithAutoInit(true),
			quire.WithLogger(slog.Default()),
		); err != nil {
			fatal("Failed to initialize site", err)
		}

		path, err := config.Save(root, *cfg)
		switch {
		case errors.Is(err, os.ErrExist):
			slog.Debug("keeping existing config", "path", path)
		case err != nil:
			fatal("Failed to write config", err)
		}

		fmt.Println("Initialized quire site in", root)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
