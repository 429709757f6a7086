package main

import (
	"github.com/spf13/cobra"

	"github.com/samirrijal/pumpedcity/internal/pkg/config"
	"github.com/samirrijal/pumpedcity/internal/pkg/logging"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:               "pumpedcity",
		Short:             "Find bike parkings near you",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml or ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newSearchCmd(opts), newLocateCmd(opts))
	return cmd
}

// load reads the configuration and installs a stderr logger.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadFile("pumpedcity-cli", o.configFile)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logging.SetupWriter(cmd.ErrOrStderr(), level, "text")
	return cfg, nil
}
