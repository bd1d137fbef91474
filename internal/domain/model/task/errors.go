package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

// Kind groups errors by the precondition they violate
type Kind string

const (
	KindIdentity   Kind = "identity"
	KindState      Kind = "state"
	KindDependency Kind = "dependency"
	KindValidation Kind = "validation"
	KindCollection Kind = "collection"
)

// Identity and range errors
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousRef = errors.New("ambiguous task reference")
)

// State transition errors
var (
	ErrAlreadyCompleted = errors.New("task is already completed")
	ErrAlreadyPending   = errors.New("task is already pending")
)

// Dependency errors
var (
	ErrSelfDependency      = errors.New("task cannot depend on itself")
	ErrDependencyCycle     = errors.New("dependency cycle detected")
	ErrDuplicateDependency = errors.New("dependency already exists")
	ErrDependencyNotFound  = errors.New("dependency does not exist")
	ErrTaskBlocked         = errors.New("task is blocked by pending dependencies")
)

// Field validation errors
var (
	ErrEmptyText                 = errors.New("task text cannot be empty")
	ErrTextTooLong               = errors.New("task text too long")
	ErrEmptyTag                  = errors.New("tag cannot be empty")
	ErrTagTooLong                = errors.New("tag too long")
	ErrInvalidTag                = errors.New("invalid tag format")
	ErrDuplicateTag              = errors.New("duplicate tag")
	ErrTagNotOnTask              = errors.New("tag is not set on task")
	ErrEmptyProject              = errors.New("project name cannot be empty")
	ErrProjectTooLong            = errors.New("project name too long")
	ErrDueDateInPast             = errors.New("due date cannot be in the past")
	ErrRecurrenceRequiresDueDate = errors.New("recurring tasks must have a due date")
	ErrInvalidPriority           = errors.New("invalid priority")
	ErrInvalidRecurrence         = errors.New("invalid recurrence")
)

// Collection errors
var (
	ErrNoTasksFound    = errors.New("no tasks found matching the specified filters")
	ErrNoTagsFound     = errors.New("no tags found in any task")
	ErrNoProjectsFound = errors.New("no projects found in any task")
	ErrNoSearchResults = errors.New("search returned no results")
	ErrTagNotFound     = errors.New("tag not found in any task")
	ErrProjectNotFound = errors.New("project not found in any task")
)

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindIdentity, []error{ErrTaskNotFound, ErrAmbiguousRef}},
	{KindState, []error{ErrAlreadyCompleted, ErrAlreadyPending}},
	{KindDependency, []error{ErrSelfDependency, ErrDependencyCycle, ErrDuplicateDependency, ErrDependencyNotFound, ErrTaskBlocked}},
	{KindValidation, []error{
		ErrEmptyText, ErrTextTooLong, ErrEmptyTag, ErrTagTooLong, ErrInvalidTag, ErrDuplicateTag,
		ErrTagNotOnTask, ErrEmptyProject, ErrProjectTooLong, ErrDueDateInPast,
		ErrRecurrenceRequiresDueDate, ErrInvalidPriority, ErrInvalidRecurrence,
	}},
	{KindCollection, []error{ErrNoTasksFound, ErrNoTagsFound, ErrNoProjectsFound, ErrNoSearchResults, ErrTagNotFound, ErrProjectNotFound}},
}

// KindOf returns the kind of a domain error
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind, true
			}
		}
	}
	return "", false
}

// Error attaches detail to a sentinel error
type Error struct {
	Err error
	Msg string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf wraps a sentinel with a formatted detail message
func Errorf(sentinel error, format string, args ...any) error {
	return &Error{Err: sentinel, Msg: fmt.Sprintf(format, args...)}
}

// BlockedError names the incomplete dependencies that prevent completion
type BlockedError struct {
	TaskID   model.TaskID
	Blocking []model.TaskID
	// Labels are display forms of Blocking, e.g. `#2 "write tests"`
	Labels []string
}

func (e *BlockedError) Error() string {
	names := e.Labels
	if len(names) == 0 {
		names = make([]string, len(e.Blocking))
		for i, id := range e.Blocking {
			names[i] = id.Short()
		}
	}
	return fmt.Sprintf("%s: %s", ErrTaskBlocked.Error(), strings.Join(names, ", "))
}

// Is makes errors.Is(err, ErrTaskBlocked) match
func (e *BlockedError) Is(target error) bool {
	return target == ErrTaskBlocked
}
