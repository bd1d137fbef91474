package cli

import "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"

// Process exit codes
const (
	ExitOK         = 0
	ExitFailure    = 1 // storage, configuration and empty results
	ExitValidation = 2
	ExitIdentity   = 3
	ExitState      = 4
	ExitDependency = 5
)

// ExitCode maps an error to the exit code for its kind
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	kind, ok := task.KindOf(err)
	if !ok {
		return ExitFailure
	}
	switch kind {
	case task.KindValidation:
		return ExitValidation
	case task.KindIdentity:
		return ExitIdentity
	case task.KindState:
		return ExitState
	case task.KindDependency:
		return ExitDependency
	default:
		return ExitFailure
	}
}
