package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ezoic/creditprep/config"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/pkg/log"
)

const version = "0.3.0"

// app carries state shared by subcommands once the root pre-run has loaded it.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "creditprep",
		Short:   "Impute and engineer features for credit-risk application data",
		Version: version,
		Long: `creditprep prepares loan application tables for modelling.

Configuration is read from --config (YAML) with CREDITPREP_* environment
overrides. Variables in --env-file are loaded first when the file exists.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with CREDITPREP_* overrides")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override: debug|info|warn|error|disabled")

	root.AddCommand(
		newImputeCmd(a),
		newInspectCmd(a),
		newInfoCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) load() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to load env file %s", a.envFile)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	if cfg.Log.Format == "json" {
		log.SetOutput(os.Stderr, cfg.Log.Level)
	} else {
		log.SetupLogger(cfg.Log.Level)
	}
	return nil
}
