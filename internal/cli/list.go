package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskline/internal/storage"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "list [all|done|undone]",
		Short:     "Print tasks without starting the interface",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"all", "done", "undone"},
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := storage.FilterAll
			if len(args) == 1 {
				f, err := storage.ParseFilter(args[0])
				if err != nil {
					return err
				}
				filter = f
			}
			return opts.runList(cmd, filter)
		},
	}
}

func (o *options) runList(cmd *cobra.Command, filter storage.Filter) error {
	env, err := o.setup()
	if err != nil {
		return err
	}
	defer env.close()

	store, err := env.loadStore(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	for i, t := range store.List(filter) {
		mark := "[ ]"
		if t.Done {
			mark = "[x]"
		}
		fmt.Fprintf(out, "%3d %s %s\n", i+1, mark, t.Description)
	}
	return nil
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <description...>",
		Short: "Append a task to the list",
		Long:  "Append a task to the list. Arguments are joined with single spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runAdd(cmd, strings.Join(args, " "))
		},
	}
}

func (o *options) runAdd(cmd *cobra.Command, description string) error {
	env, err := o.setup()
	if err != nil {
		return err
	}
	defer env.close()

	store, err := env.loadStore(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Add(description); err != nil {
		env.logger.Error("add failed", "err", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", store.Count(storage.FilterAll), storage.CleanDescription(description))
	return nil
}
