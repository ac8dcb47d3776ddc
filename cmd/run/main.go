package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/internal/crawler"
	githubapi "github.com/thep200/github-gsa-feed/internal/github_api"
	"github.com/thep200/github-gsa-feed/internal/transport"
	"github.com/thep200/github-gsa-feed/pkg/db"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

var rootFlags struct {
	ConfigFile string
	Output     string
	OutDir     string
	Pretty     bool
}

var rootCmd = &cobra.Command{
	Use:   "gsafeed <datasource> <github_server> <gsa_server>",
	Short: "Feed GitHub owners, repositories and READMEs to a Google Search Appliance",
	Long: `Harvest every user and organization of a GitHub instance together with their
repositories, and push them to a Google Search Appliance as two feeds: a
metadata-and-url feed pointing at README files and an incremental feed carrying
owner and repository descriptions.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 3 {
			return cfg.ErrMissingArgument
		}
		return nil
	},
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&rootFlags.ConfigFile, "config", "", "config file (default cfg/yaml/mode.yaml)")
	rootCmd.Flags().StringVar(&rootFlags.Output, "output", "", "where feeds go: gsa, file, console or kafka")
	rootCmd.Flags().StringVar(&rootFlags.OutDir, "out-dir", "", "directory for --output=file")
	rootCmd.Flags().BoolVar(&rootFlags.Pretty, "pretty", false, "indent feeds written to file or console")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		if errors.Is(err, cfg.ErrMissingArgument) {
			_, _ = fmt.Fprintln(os.Stderr, rootCmd.UsageString())
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	viperLoader, err := cfg.NewViperLoader(rootFlags.ConfigFile)
	if err != nil {
		return err
	}
	loader, err := cfg.NewLoader(viperLoader)
	if err != nil {
		return err
	}
	config, err := cfg.LoadWithArgs(loader, args)
	if err != nil {
		return err
	}
	applyFlags(cmd, config)

	logger, err := log.NewLogger(config.App.LogFormat, config.App.LogLevel)
	if err != nil {
		return err
	}

	ctx := log.WithRunID(cmd.Context(), uuid.NewString())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mysql, err := db.NewMysql(config)
	if err != nil {
		return err
	}
	defer mysql.Close()
	if mysql.Enabled() {
		if err := mysql.Ping(ctx); err != nil {
			return err
		}
	}

	sink, err := transport.FactorySink(config.Output.Mode, logger, config, mysql)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn(ctx, "Closing %s sink: %v", sink.Name(), err)
		}
	}()

	client := githubapi.NewClient(githubapi.NewCaller(logger, config), config.GithubApi.ApiUrl)

	logger.Info(ctx, "Starting feed of %s into datasource '%s' via %s", config.GithubApi.ApiUrl, config.Gsa.Datasource, sink.Name())
	info, err := crawler.NewFeedCrawler(logger, config, client, sink).Crawl(ctx)
	if err != nil {
		logger.Error(ctx, "Failed! %v", err)
		return err
	}
	if info.DeliveryFailed() {
		return errors.New("one or more feed documents were not delivered")
	}

	logger.Info(ctx, "Successfully!")
	return nil
}

// applyFlags lets explicit flags win over the config file and environment.
func applyFlags(cmd *cobra.Command, config *cfg.Config) {
	if cmd.Flags().Changed("output") {
		config.Output.Mode = rootFlags.Output
	}
	if cmd.Flags().Changed("out-dir") {
		config.Output.Dir = rootFlags.OutDir
	}
	if cmd.Flags().Changed("pretty") {
		config.Output.Pretty = rootFlags.Pretty
	}
}
