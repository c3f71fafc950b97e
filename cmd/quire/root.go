package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire"
	"github.com/aretw0/quire/internal/config"
	"github.com/aretw0/quire/pkg/commits"
	"github.com/aretw0/quire/pkg/core"
)

var (
	verbose      bool
	logFormat    string
	cfgFile      string
	siteDir      string
	noVersioning bool
	changeReason string
)

var rootCmd = &cobra.Command{
	Use:   "quire",
	Short: "Draft, publish and hand off blog posts stored as Markdown + frontmatter",
	Long: `quire manages the content side of a static-site blog.
Posts start as drafts, only an explicit publish makes them public, and every
change is committed to git so that a push hands the site to CI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{Level: level}
		var handler slog.Handler
		if logFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			handler = slog.NewTextHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is <site>/.quire.yml)")
	rootCmd.PersistentFlags().StringVarP(&siteDir, "dir", "C", ".", "Site directory (searched upwards for a site root)")
	rootCmd.PersistentFlags().BoolVar(&noVersioning, "no-versioning", false, "Do not use git")
}

// resolveRoot finds the enclosing site, falling back to --dir itself.
func resolveRoot() (string, error) {
	root, err := quire.FindRoot(siteDir)
	if errors.Is(err, quire.ErrRootNotFound) {
		return filepath.Abs(siteDir)
	}
	return root, err
}

// loadConfig reads .env and the site configuration for root.
func loadConfig(root string) (*config.Config, error) {
	if err := config.LoadEnvFile(root); err != nil {
		return nil, err
	}
	cfg, err := config.Load(root, cfgFile)
	if err != nil {
		return nil, err
	}
	if noVersioning {
		cfg.Versioning = false
	}
	if cfg.Source != "" {
		slog.Debug("using config file", "path", cfg.Source)
	}
	return cfg, nil
}

// openService opens an existing site. Extra options are applied last.
func openService(extra ...quire.Option) (*core.Service, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}

	opts := []quire.Option{
		quire.WithConfig(*cfg),
		quire.WithAutoInit(false),
		quire.WithLogger(slog.Default()),
	}
	return quire.New(root, append(opts, extra...)...)
}

// commandContext carries the -m change reason, if given.
func commandContext() context.Context {
	ctx := context.Background()
	if changeReason != "" {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, commits.AppendFooter(changeReason))
	}
	return ctx
}

func addMessageFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&changeReason, "message", "m", "", "Change reason recorded as the commit message")
}
