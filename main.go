package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "config.yml"
)

var (
	configFile = defaultConfigFile
)

var rootCmd = &cobra.Command{
	Use:   "key-relay",
	Short: "Upstream API key selection for the proxy",
	Long: `key-relay holds a pool of weighted upstream API keys and picks one
per request, either round-robin or weighted-random.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigFile, "path to config file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:        time.RFC3339Nano,
		DisableColors:          true,
		DisableLevelTruncation: true,
		ForceQuote:             true,
		FullTimestamp:          true,
	})
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func reloadLogConfig(level string) (err error) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	if logLevel != logrus.GetLevel() {
		logrus.Infof("log level changed to: %s", level)
	}
	logrus.SetLevel(logLevel)
	return
}
