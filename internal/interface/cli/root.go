package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	controller "github.com/YoshitsuguKoike/deetodo/internal/adapter/controller/cli"
	"github.com/YoshitsuguKoike/deetodo/internal/app"
	infraConfig "github.com/YoshitsuguKoike/deetodo/internal/infra/config"
	"github.com/YoshitsuguKoike/deetodo/internal/interface/cli/version"
	mcpserver "github.com/YoshitsuguKoike/deetodo/internal/interface/mcp"
)

// NewRoot builds the deetodo command tree
func NewRoot() *cobra.Command {
	return newRoot(&session{})
}

func newRoot(s *session) *cobra.Command {
	var (
		verbose bool
		format  string
		home    string
	)

	cmd := &cobra.Command{
		Use:   "deetodo",
		Short: "A personal task tracker with dependencies and recurring tasks",
		Long: `deetodo keeps a single ordered task list. Tasks are addressed by their
1-based position in that list or by a unique ID prefix.

Configuration is read from <home>/setting.json, <home>/.env and DEETODO_*
environment variables. Home defaults to $XDG_DATA_HOME/deetodo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if !needsStore(c) {
				return nil
			}
			dir := home
			if dir == "" {
				dir = app.ResolveHome()
			}
			cfg, err := infraConfig.LoadSettings(dir)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			level := app.LogLevelFromString(cfg.StderrLevel())
			if verbose {
				level = app.LogLevelDebug
			}
			app.SetLogger(app.NewLevelLogger(level, c.ErrOrStderr()))
			app.GetLogger().Debug("config: home=%s source=%s backend=%s", cfg.Home(), cfg.ConfigSource(), cfg.Backend())

			return s.open(c.Context(), cfg, format, c.OutOrStdout())
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug messages to stderr")
	cmd.PersistentFlags().StringVarP(&format, "output", "o", "text", "Output format (text, json, yaml)")
	cmd.PersistentFlags().StringVar(&home, "home", "", "Data directory (default $DEETODO_HOME)")

	cmd.AddCommand(controller.NewRootBuilder(s).Commands()...)
	cmd.AddCommand(newMCPCmd(s))
	cmd.AddCommand(version.NewCommand())
	return cmd
}

func newMCPCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task list as MCP tools over stdio",
		Long: `Serve the task list to an MCP client (an editor or agent) over stdin and
stdout. Logs go to stderr. The server runs until the client disconnects.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			srv := mcpserver.NewServer(s.TaskUseCase(), s.today, app.GetLogger())
			return srv.Run(c.Context())
		},
	}
}

// needsStore reports whether c works on the task list
func needsStore(c *cobra.Command) bool {
	if c == c.Root() || c.Annotations[version.SkipStoreAnnotation] == "true" {
		return false
	}
	for p := c; p != nil; p = p.Parent() {
		switch p.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// Execute runs one command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	s := &session{}
	root := newRoot(s)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := s.Close(); cerr != nil {
		app.GetLogger().Warn("%v", cerr)
	}
	if err == nil {
		return ExitOK
	}

	var presented *controller.PresentedError
	if !errors.As(err, &presented) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
