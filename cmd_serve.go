package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/4O4-Not-F0und/key-relay/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the credential manager and reload it on config changes",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var watchConfig bool

func init() {
	serveCmd.Flags().BoolVar(&watchConfig, "watch", true, "reload when the config file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	appConfig, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}
	logrus.Infof("loaded config from '%s'", configFile)

	err = reloadLogConfig(appConfig.LogLevel)
	if err != nil {
		logrus.Errorf("error parsing new log level '%s': %v", appConfig.LogLevel, err)
	}

	svc, err := newService(configFile, appConfig)
	if err != nil {
		return err
	}

	metrics.InitMetricServer(appConfig.Metric, svc.Describe)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchConfig {
		if err = svc.Watch(ctx); err != nil {
			logrus.Warnf("%v, reload on SIGHUP only", err)
		}
	}

	svc.handleSignals(ctx)
	logrus.Info("shutting down")
	return nil
}
