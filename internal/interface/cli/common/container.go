package common

import (
	"context"
	"fmt"
	"io"

	"github.com/YoshitsuguKoike/deetodo/internal/app/config"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/di"
)

// InitializeContainer creates a DI container for the loaded configuration
func InitializeContainer(ctx context.Context, cfg config.Config, format string, w io.Writer) (*di.Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return di.NewContainer(ctx, di.Config{
		App:          cfg,
		OutputFormat: format,
		OutputWriter: w,
	})
}
