package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetodo/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

// Session supplies the use case and presenter to controllers. It is
// resolved when a command runs, after configuration has been loaded.
type Session interface {
	TaskUseCase() input.TaskUseCase
	Presenter() output.Presenter
	// ResolveDate parses a user-supplied due date relative to today
	ResolveDate(s string) (model.Date, error)
}

// PresentedError marks an error the presenter has already shown, so the
// entry point only needs to pick an exit code for it
type PresentedError struct {
	Err error
}

func (e *PresentedError) Error() string { return e.Err.Error() }

func (e *PresentedError) Unwrap() error { return e.Err }

// RootBuilder builds the task subcommands
type RootBuilder struct {
	session Session
}

// NewRootBuilder creates a new command builder
func NewRootBuilder(session Session) *RootBuilder {
	return &RootBuilder{session: session}
}

// Commands returns every task subcommand, ready to be added to a root
func (b *RootBuilder) Commands() []*cobra.Command {
	taskController := NewTaskController(b.session)
	queryController := NewQueryController(b.session)

	cmds := taskController.Commands()
	cmds = append(cmds, queryController.Commands()...)
	return cmds
}

// fail presents err and wraps it so it is not printed twice
func fail(p output.Presenter, err error) error {
	if perr := p.PresentError(err); perr != nil && !errors.Is(perr, err) {
		return perr
	}
	return &PresentedError{Err: err}
}
