package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vault-md/scriptvault/internal/application"
	"github.com/vault-md/scriptvault/internal/config"
	"github.com/vault-md/scriptvault/internal/logger"
)

type globalOptions struct {
	configFile string
	logLevel   string
	dbPath     string

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "scriptvault",
		Short:        "scriptvault - keep a script library in sync with a folder",
		Long:         "scriptvault stores scripts locally and mirrors them into a linked folder, one file per script plus a metadata.json side-car.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}

			log, err := logger.New(logger.Options{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
			})
			if err != nil {
				return err
			}

			opts.cfg = cfg
			opts.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if opts.log != nil {
				opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default is config.yaml in the XDG config dir)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, or error")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "State database path (default is state.db in the vault dir)")

	cmd.AddCommand(newLinkCmd(opts))
	cmd.AddCommand(newUnlinkCmd(opts))
	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newSaveCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newNewCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newConflictsCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

func (o *globalOptions) appOptions(notify *cliNotifier) application.Options {
	opts := application.Options{
		DBPath: o.dbPath,
		Config: o.cfg,
		Logger: o.log,
	}
	if notify != nil {
		opts.Notifier = notify
	}
	return opts
}

// openApp opens the vault with notices printed to the command's stderr.
func (o *globalOptions) openApp(cmd *cobra.Command) (*application.App, error) {
	return application.Open(o.appOptions(&cliNotifier{w: cmd.ErrOrStderr()}))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// cliNotifier prints user notices as single lines.
type cliNotifier struct {
	w io.Writer
}

func (n *cliNotifier) Success(msg string) { fmt.Fprintln(n.w, msg) }
func (n *cliNotifier) Error(msg string)   { fmt.Fprintln(n.w, "error: "+msg) }
func (n *cliNotifier) Message(msg string) { fmt.Fprintln(n.w, msg) }
