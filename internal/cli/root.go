// Package cli wires configuration, logging, storage and the UI into the
// taskline command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskline/internal/session"
	"taskline/internal/storage"
	"taskline/internal/ui"
)

// options holds flags shared by every command.
type options struct {
	configPath string
	version    string
}

// NewRootCmd builds the command tree. Running the root command starts the TUI.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{version: version}

	rootCmd := &cobra.Command{
		Use:   "taskline",
		Short: "A keyboard-driven task list for the terminal",
		Long: `taskline keeps a flat list of tasks in a plain text file and lets you
browse it through All, Done and Undone views.

Each line of the data file is "<status>,<description>", where status "x"
marks a finished task.`,
		Args:          cobra.NoArgs,
		RunE:          opts.runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/taskline/config.yaml)")

	rootCmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newBackupCmd(opts),
		newRestoreCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *options) runTUI(cmd *cobra.Command, args []string) error {
	env, err := o.setup()
	if err != nil {
		return err
	}
	defer env.close()

	filter, err := storage.ParseFilter(env.cfg.UX.DefaultFilter)
	if err != nil {
		return fmt.Errorf("ux.default_filter: %w", err)
	}

	store := env.newStore()
	defer store.Close()

	path := env.cfg.GetDataFile()
	sess, err := session.New(store, path,
		session.WithLogger(env.logger),
		session.WithFilter(filter),
	)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if loadErr := sess.LoadErr(); loadErr != nil {
		reportLoadErr(cmd.ErrOrStderr(), loadErr)
	}

	appCfg := &ui.AppConfig{
		Keys:     &env.cfg.Keys,
		ShowHelp: env.cfg.UX.ShowHelp,
	}
	if err := ui.Run(sess, ui.NewStyles(env.cfg), appCfg); err != nil {
		env.logger.Error("session ended with error", "err", err)
		return err
	}
	return nil
}
