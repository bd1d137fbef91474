package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
)

// TaskController handles the commands that change the task list
type TaskController struct {
	session Session
}

// NewTaskController creates a new task controller
func NewTaskController(session Session) *TaskController {
	return &TaskController{session: session}
}

// Commands returns the mutation commands
func (c *TaskController) Commands() []*cobra.Command {
	return []*cobra.Command{
		c.AddCommand(),
		c.DoneCommand(),
		c.UndoneCommand(),
		c.RemoveCommand(),
		c.EditCommand(),
		c.RecurCommand(),
		c.NoRecurCommand(),
		c.ClearCommand(),
	}
}

// AddCommand creates the 'add' command
func (c *TaskController) AddCommand() *cobra.Command {
	var (
		priority string
		tags     []string
		project  string
		due      string
		recur    string
		deps     []string
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a new task to your todo list",
		Long: `Add a new task to your todo list.

Due dates accept YYYY-MM-DD or expressions such as "tomorrow",
"next friday" or "in 3 days". A recurring task needs a due date.`,
		Example: `  deetodo add "Pay rent" --priority high --due 2025-04-01 --recur monthly
  deetodo add "Write report" -t work,docs -p office --dep 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			req := dto.AddTaskRequest{
				Text:       strings.Join(args, " "),
				Priority:   priority,
				Tags:       tags,
				Project:    project,
				Recurrence: recur,
				DependsOn:  deps,
			}
			if due != "" {
				date, err := c.session.ResolveDate(due)
				if err != nil {
					return fail(p, err)
				}
				req.DueDate = date
			}

			result, err := c.session.TaskUseCase().AddTask(cmd.Context(), req)
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess(fmt.Sprintf("Added task #%d", result.Task.Position), result)
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority level (high, medium, low)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tags to attach (comma-separated or repeat flag)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project to assign the task to")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or expression)")
	cmd.Flags().StringVar(&recur, "recur", "", "Recurrence pattern (daily, weekly, monthly)")
	cmd.Flags().StringSliceVar(&deps, "dep", nil, "Tasks this task depends on")

	return cmd
}

// DoneCommand creates the 'done' command
func (c *TaskController) DoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().CompleteTask(cmd.Context(), args[0])
			if err != nil {
				return fail(p, err)
			}
			msg := fmt.Sprintf("Completed #%d: %s", result.Task.Position, result.Task.Text)
			return p.PresentSuccess(msg, result)
		},
	}
}

// UndoneCommand creates the 'undone' command
func (c *TaskController) UndoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undone <id>",
		Short: "Mark a completed task as pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().ReopenTask(cmd.Context(), args[0])
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess(fmt.Sprintf("Reopened #%d", result.Position), result)
		},
	}
}

// RemoveCommand creates the 'remove' command
func (c *TaskController) RemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			uc := c.session.TaskUseCase()

			if !yes {
				current, err := uc.GetTask(cmd.Context(), args[0])
				if err != nil {
					return fail(p, err)
				}
				question := fmt.Sprintf("Remove #%d %q?", current.Position, current.Text)
				if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
					return nil
				}
			}

			result, err := uc.RemoveTask(cmd.Context(), args[0])
			if err != nil {
				return fail(p, err)
			}
			msg := fmt.Sprintf("Removed #%d: %s", result.Task.Position, result.Task.Text)
			return p.PresentSuccess(msg, result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// EditCommand creates the 'edit' command
func (c *TaskController) EditCommand() *cobra.Command {
	var (
		text         string
		priority     string
		addTags      []string
		removeTags   []string
		clearTags    bool
		project      string
		clearProject bool
		due          string
		clearDue     bool
		addDeps      []string
		removeDeps   []string
		clearDeps    bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing task",
		Long: `Edit an existing task. Only the given fields change.

Unlike add, a due date in the past is accepted.`,
		Example: `  deetodo edit 3 --text "Call the bank" --priority high
  deetodo edit 3 --add-tag urgent --remove-tag later
  deetodo edit 3 --clear-due --clear-deps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			flags := cmd.Flags()

			req := dto.EditTaskRequest{
				Ref:          args[0],
				AddTags:      addTags,
				RemoveTags:   removeTags,
				ClearTags:    clearTags,
				ClearProject: clearProject,
				ClearDue:     clearDue,
				AddDeps:      addDeps,
				RemoveDeps:   removeDeps,
				ClearDeps:    clearDeps,
			}
			if flags.Changed("text") {
				req.Text = &text
			}
			if flags.Changed("priority") {
				req.Priority = &priority
			}
			if flags.Changed("project") {
				req.Project = &project
			}
			if flags.Changed("due") {
				date, err := c.session.ResolveDate(due)
				if err != nil {
					return fail(p, err)
				}
				req.DueDate = &date
			}

			result, err := c.session.TaskUseCase().EditTask(cmd.Context(), req)
			if err != nil {
				return fail(p, err)
			}
			msg := ""
			if len(result.Changes) > 0 {
				msg = fmt.Sprintf("Updated #%d", result.Task.Position)
			}
			return p.PresentSuccess(msg, result)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New task description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority level")
	cmd.Flags().StringSliceVar(&addTags, "add-tag", nil, "Tags to add")
	cmd.Flags().StringSliceVar(&removeTags, "remove-tag", nil, "Tags to remove")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "Remove all tags")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Assign the task to a project")
	cmd.Flags().BoolVar(&clearProject, "clear-project", false, "Remove the task from its project")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD or expression)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringSliceVar(&addDeps, "add-dep", nil, "Tasks to add as dependencies")
	cmd.Flags().StringSliceVar(&removeDeps, "remove-dep", nil, "Tasks to remove from dependencies")
	cmd.Flags().BoolVar(&clearDeps, "clear-deps", false, "Remove all dependencies")

	cmd.MarkFlagsMutuallyExclusive("project", "clear-project")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("add-tag", "clear-tags")
	cmd.MarkFlagsMutuallyExclusive("remove-tag", "clear-tags")
	cmd.MarkFlagsMutuallyExclusive("add-dep", "clear-deps")
	cmd.MarkFlagsMutuallyExclusive("remove-dep", "clear-deps")

	return cmd
}

// RecurCommand creates the 'recur' command
func (c *TaskController) RecurCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "recur <id> <daily|weekly|monthly>",
		Short:     "Set or change the recurrence pattern of a task",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"daily", "weekly", "monthly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().SetRecurrence(cmd.Context(), args[0], args[1])
			if err != nil {
				return fail(p, err)
			}
			msg := fmt.Sprintf("#%d repeats %s", result.Task.Position, result.Task.Recurrence)
			if !result.Changed {
				msg = fmt.Sprintf("#%d already repeats %s", result.Task.Position, result.Task.Recurrence)
			}
			return p.PresentSuccess(msg, result)
		},
	}
}

// NoRecurCommand creates the 'norecur' command
func (c *TaskController) NoRecurCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "norecur <id>",
		Short: "Remove the recurrence pattern from a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			result, err := c.session.TaskUseCase().ClearRecurrence(cmd.Context(), args[0])
			if err != nil {
				return fail(p, err)
			}
			msg := fmt.Sprintf("#%d no longer repeats", result.Task.Position)
			if !result.Changed {
				msg = fmt.Sprintf("#%d does not repeat", result.Task.Position)
			}
			return p.PresentSuccess(msg, result)
		},
	}
}

// ClearCommand creates the 'clear' command
func (c *TaskController) ClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.session.Presenter()
			uc := c.session.TaskUseCase()

			if !yes {
				stats, err := uc.Stats(cmd.Context())
				if err != nil {
					return fail(p, err)
				}
				if stats.Total > 0 {
					question := fmt.Sprintf("Remove all %d task(s)?", stats.Total)
					if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
						return nil
					}
				}
			}

			result, err := uc.ClearTasks(cmd.Context())
			if err != nil {
				return fail(p, err)
			}
			return p.PresentSuccess("Cleared the task list", result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// confirm asks a yes/no question; anything but y or yes is a no
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
