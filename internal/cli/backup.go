package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskline/internal/backup"
)

func newBackupCmd(opts *options) *cobra.Command {
	var (
		list bool
		keep int
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the data file",
		Long: `Creates a timestamped copy of the data file in a .taskline-backups
directory next to it. Use --list to see existing backups and --keep to
drop all but the newest N after backing up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup()
			if err != nil {
				return err
			}
			defer env.close()

			manager := backup.NewManager(env.cfg.GetDataFile(), opts.version)
			out := cmd.OutOrStdout()

			if list {
				backups, err := manager.List()
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					fmt.Fprintln(out, "No backups available.")
					fmt.Fprintln(out, "Run 'taskline backup' to create one.")
					return nil
				}
				fmt.Fprintln(out, "Available backups:")
				for _, b := range backups {
					fmt.Fprintf(out, "  %s  (%s)   Tasks: %d, Done: %d\n",
						b.Name, formatAge(time.Since(b.CreatedAt)), b.Tasks, b.Done)
				}
				return nil
			}

			name, err := manager.Create()
			if err != nil {
				return err
			}
			env.logger.Info("backup created", "name", name)

			info, err := manager.GetBackup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Backup created: %s\n", name)
			fmt.Fprintf(out, "  Tasks: %d, Done: %d\n", info.Tasks, info.Done)
			fmt.Fprintf(out, "  Location: %s\n", info.Path)

			if cmd.Flags().Changed("keep") {
				deleted, err := manager.Prune(keep)
				if err != nil {
					return err
				}
				if deleted > 0 {
					fmt.Fprintf(out, "  Pruned %d old backup(s)\n", deleted)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	cmd.Flags().IntVar(&keep, "keep", 0, "keep only the newest N backups")
	return cmd
}

func newRestoreCmd(opts *options) *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Replace the data file with a backup",
		Long: `Replaces the data file with the named backup, or the newest one with
--latest. The current file is backed up first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == (len(args) == 1) {
				return errors.New("give either a backup name or --latest")
			}

			env, err := opts.setup()
			if err != nil {
				return err
			}
			defer env.close()

			manager := backup.NewManager(env.cfg.GetDataFile(), opts.version)

			var name, safety string
			if latest {
				name, safety, err = manager.RestoreLatest()
			} else {
				name = args[0]
				safety, err = manager.Restore(name)
			}
			if err != nil {
				return err
			}
			env.logger.Info("backup restored", "name", name, "safety", safety)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Restored %s\n", name)
			if safety != "" {
				fmt.Fprintf(out, "  Previous data saved as %s\n", safety)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	return cmd
}

// formatAge returns a human-readable age.
func formatAge(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}
