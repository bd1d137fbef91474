package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetodo/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
)

// QueryController handles the read-only commands
type QueryController struct {
	session Session
}

// NewQueryController creates a new query controller
func NewQueryController(session Session) *QueryController {
	return &QueryController{session: session}
}

// Commands returns the query commands
func (c *QueryController) Commands() []*cobra.Command {
	return []*cobra.Command{
		c.ListCommand(),
		c.SearchCommand(),
		c.TagsCommand(),
		c.ProjectsCommand(),
		c.DepsCommand(),
		c.StatsCommand(),
		c.InfoCommand(),
		c.ExportCommand(),
		c.JournalCommand(),
	}
}

// ListCommand creates the 'list' command
func (c *QueryController) ListCommand() *cobra.Command {
	var req dto.ListTasksRequest

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List and filter tasks",
		Example: `  deetodo list --status pending --sort due
  deetodo list --due overdue -t work
  deetodo list --recur recurring`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().ListTasks(cmd.Context(), req)
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}

	cmd.Flags().StringVar(&req.Status, "status", dto.StatusAll, "Show all, pending or done tasks")
	cmd.Flags().StringVar(&req.Priority, "priority", "", "Filter by priority level")
	cmd.Flags().StringVar(&req.Due, "due", "", "Filter by due date (overdue, soon, with-due, no-due)")
	cmd.Flags().StringVarP(&req.Sort, "sort", "s", "", "Sort by priority, due or created")
	cmd.Flags().StringVarP(&req.Tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().StringVarP(&req.Project, "project", "p", "", "Filter by project (case-insensitive)")
	cmd.Flags().StringVarP(&req.Recur, "recur", "r", "", "Filter by recurrence (daily, weekly, monthly, recurring, non-recurring)")

	return cmd
}

// SearchCommand creates the 'search' command
func (c *QueryController) SearchCommand() *cobra.Command {
	var req dto.SearchTasksRequest

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			req.Query = strings.Join(args, " ")
			result, err := c.session.TaskUseCase().SearchTasks(cmd.Context(), req)
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}

	cmd.Flags().StringVarP(&req.Tag, "tag", "t", "", "Narrow results to a tag")
	cmd.Flags().StringVarP(&req.Project, "project", "p", "", "Narrow results to a project")
	cmd.Flags().StringVar(&req.Status, "status", dto.StatusAll, "Narrow results by status")

	return cmd
}

// TagsCommand creates the 'tags' command
func (c *QueryController) TagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags with task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().ListTags(cmd.Context())
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}
}

// ProjectsCommand creates the 'projects' command
func (c *QueryController) ProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List all projects with pending and done counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().ListProjects(cmd.Context())
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}
}

// DepsCommand creates the 'deps' command
func (c *QueryController) DepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <id>",
		Short: "Show the dependency graph of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().Dependencies(cmd.Context(), args[0])
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}
}

// StatsCommand creates the 'stats' command
func (c *QueryController) StatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show productivity statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().Stats(cmd.Context())
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}
}

// InfoCommand creates the 'info' command
func (c *QueryController) InfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where the task list is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().Info(cmd.Context())
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}
}

// ExportCommand creates the 'export' command. It bypasses the presenter so
// the output can be piped straight into another tool.
func (c *QueryController) ExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole task list to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			tasks, err := c.session.TaskUseCase().Export(cmd.Context())
			if err != nil {
				return fail(p, err)
			}
			if err := presenter.Encode(cmd.OutOrStdout(), format, tasks); err != nil {
				return fail(p, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", presenter.FormatJSON, "Export format (json, yaml)")

	return cmd
}

// JournalCommand creates the 'journal' command
func (c *QueryController) JournalCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent committed changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().Journal(cmd.Context(), limit)
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("", result)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")

	return cmd
}
