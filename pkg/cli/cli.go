package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tasklist/pkg/commands"
	"tasklist/pkg/config"
	"tasklist/pkg/theme"
	"tasklist/pkg/ui"
)

type options struct {
	configPath string
	verbose    bool
	ephemeral  bool

	// list
	filter string
	search string
	date   string
	page   int

	// clear-completed
	yes bool
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Without a subcommand it starts the
// terminal UI.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "A keyboard-driven todo list",
		Long: `tasklist keeps a list of short tasks you can add, complete, edit, delete,
filter, search and page through. Run it without a subcommand for the
interactive terminal UI.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				th := theme.Load(ctx, app.Slots, theme.TerminalDetector)
				return ui.Run(ui.NewModel(app.Store, app.Slots, app.Config, app.Palettes, th))
			})
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep tasks in memory only")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newClearCompletedCmd(opts),
		newStatsCmd(opts),
		newThemeCmd(opts),
	)
	return root
}

// withApp opens the app for the duration of fn
func withApp(cmd *cobra.Command, opts *options, fn func(context.Context, *App) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(ctx, app)
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Example: `  tasklist add Buy milk
  tasklist add "Call the plumber"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleAddTask(cmd.OutOrStdout(), app.Store, args)
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List one page of tasks.

Examples:
  tasklist list                     # first page of every task
  tasklist list --filter active     # only tasks still to do
  tasklist list --search milk       # case-insensitive text search
  tasklist list --date today        # tasks added today
  tasklist list --page 2            # second page`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleList(cmd.OutOrStdout(), app.Store, commands.ListOptions{
					Filter: opts.filter,
					Search: opts.search,
					Date:   opts.date,
					Page:   opts.page,
				})
			})
		},
	}
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "all", "all, active or completed")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "only tasks containing this text")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "only tasks added on this day (YYYY-MM-DD or today)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page to show")
	return cmd
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed or active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleToggle(cmd.OutOrStdout(), app.Store, args[0])
			})
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Change a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleEdit(cmd.OutOrStdout(), app.Store, args[0], args[1:])
			})
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleDelete(cmd.OutOrStdout(), app.Store, args[0])
			})
		},
	}
}

func newClearCompletedCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleClearCompleted(cmd.OutOrStdout(), cmd.InOrStdin(), app.Store, opts.yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, app *App) error {
				return commands.HandleStats(cmd.OutOrStdout(), app.Store)
			})
		},
	}
}

func newThemeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				arg := ""
				if len(args) == 1 {
					arg = args[0]
				}
				return commands.HandleTheme(ctx, cmd.OutOrStdout(), app.Slots, theme.TerminalDetector, arg)
			})
		},
	}
}
