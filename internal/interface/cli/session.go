package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/YoshitsuguKoike/deetodo/internal/app/config"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/di"
	"github.com/YoshitsuguKoike/deetodo/internal/interface/cli/common"
)

// session owns the container for one command invocation
type session struct {
	container *di.Container
}

func (s *session) open(ctx context.Context, cfg config.Config, format string, w io.Writer) error {
	container, err := common.InitializeContainer(ctx, cfg, format, w)
	if err != nil {
		return err
	}
	s.container = container
	return nil
}

func (s *session) TaskUseCase() input.TaskUseCase {
	return s.container.GetTaskUseCase()
}

func (s *session) Presenter() output.Presenter {
	return s.container.GetPresenter()
}

func (s *session) ResolveDate(v string) (model.Date, error) {
	return common.ParseDate(v, s.container.Today())
}

func (s *session) today() model.Date {
	return s.container.Today()
}

// Close releases the store; it is safe to call when nothing was opened
func (s *session) Close() error {
	if s.container == nil {
		return nil
	}
	err := s.container.Close()
	s.container = nil
	if err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
