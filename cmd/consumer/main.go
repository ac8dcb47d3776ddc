package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/internal/transport"
	"github.com/thep200/github-gsa-feed/pkg/db"
	"github.com/thep200/github-gsa-feed/pkg/kafka"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "gsafeed-relay [gsa_server]",
	Short: "Upload feed documents published on Kafka to a Google Search Appliance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (default cfg/yaml/mode.yaml)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// relay forwards each message to the current upload sink. The sink is rebuilt when the config file changes.
type relay struct {
	logger log.Logger
	mysql  *db.Mysql
	mu     sync.RWMutex
	sink   transport.Sink
}

func (r *relay) rebuild(config *cfg.Config) error {
	sink, err := transport.FactorySink(cfg.OutputGsa, r.logger, config, r.mysql)
	if err != nil {
		return err
	}

	r.mu.Lock()
	old := r.sink
	r.sink = sink
	r.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

func (r *relay) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sink.Close()
}

func (r *relay) handle(ctx context.Context, value []byte, headers map[string]string) error {
	payload, err := transport.PayloadFromMessage(value, headers)
	if err != nil {
		return err
	}

	r.mu.RLock()
	sink := r.sink
	r.mu.RUnlock()
	return sink.Send(ctx, payload)
}

func run(cmd *cobra.Command, args []string) error {
	loader, err := cfg.NewViperLoader(configFile)
	if err != nil {
		return err
	}
	config, err := loader.Load()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		config.Gsa.Server = strings.TrimRight(strings.TrimSpace(args[0]), "/")
	}
	if config.Gsa.Server == "" {
		return fmt.Errorf("no GSA server: pass it as argument or set gsa.server")
	}

	logger, err := log.NewLogger(config.App.LogFormat, config.App.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mysql, err := db.NewMysql(config)
	if err != nil {
		return err
	}
	defer mysql.Close()

	r := &relay{logger: logger, mysql: mysql}
	if err := r.rebuild(config); err != nil {
		return err
	}
	defer r.close()

	if loader.IsWatchChange() {
		server := config.Gsa.Server
		loader.RegisterConfigChangeCallback(func(next *cfg.Config) {
			if next.Gsa.Server == "" {
				next.Gsa.Server = server
			}
			if err := r.rebuild(next); err != nil {
				logger.Error(ctx, "Keeping previous GSA target, reload failed: %v", err)
				return
			}
			logger.Info(ctx, "GSA target is now %s", next.FeedURL())
		})
	}

	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.Topic, config.Kafka.GroupID)
	if err != nil {
		return err
	}
	defer consumer.Close()
	consumer.RegisterHandler(r.handle)

	logger.Info(ctx, "Relaying topic %s to %s", config.Kafka.Topic, config.FeedURL())
	if err := consumer.Start(ctx); err != nil {
		logger.Error(ctx, "Relay consumer error: %v", err)
		return err
	}

	logger.Info(ctx, "Received shutdown signal, relay stopped")
	return nil
}
