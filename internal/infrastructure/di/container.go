package di

import (
	"context"
	"fmt"
	"io"
	"os"

	storagegateway "github.com/YoshitsuguKoike/deetodo/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/deetodo/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/deetodo/internal/app"
	appconfig "github.com/YoshitsuguKoike/deetodo/internal/app/config"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	taskusecase "github.com/YoshitsuguKoike/deetodo/internal/application/usecase/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
	"github.com/YoshitsuguKoike/deetodo/internal/infra/fs"
	"github.com/YoshitsuguKoike/deetodo/internal/infra/persistence/file"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence/memory"
	neo4jrepo "github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence/neo4j"
	sqliterepo "github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/transaction"
)

// Backend names accepted in configuration
const (
	BackendJSON   = string(repository.BackendJSON)
	BackendYAML   = string(repository.BackendYAML)
	BackendSQLite = string(repository.BackendSQLite)
	BackendNeo4j  = string(repository.BackendNeo4j)
	BackendMemory = string(repository.BackendMemory)
)

// Container is the DI container that holds all dependencies
// This implements manual dependency injection for Clean Architecture
type Container struct {
	// Infrastructure Layer - Storage
	taskRepo repository.TaskRepository
	closers  []func() error

	// Infrastructure Layer - Gateways
	storageGateway output.StorageGateway

	// Infrastructure Layer - Transactions
	locker    output.Locker
	journal   repository.JournalRepository
	txManager output.TransactionManager

	// Domain Layer - Services
	lifecycle *service.Lifecycle

	// Application Layer - Use Cases
	taskUseCase input.TaskUseCase

	// Adapter Layer - Presenters
	presenter output.Presenter

	// Configuration
	config Config
	paths  app.Paths
}

// Config holds configuration for the container
type Config struct {
	App          appconfig.Config
	OutputFormat string // text, json or yaml
	OutputWriter io.Writer
	Clock        service.Clock // nil uses the system date
}

// NewContainer creates and initializes the DI container
func NewContainer(ctx context.Context, config Config) (*Container, error) {
	if config.App == nil {
		return nil, fmt.Errorf("container requires an application config")
	}
	c := &Container{
		config: config,
		paths:  app.ResolvePaths(config.App.Home()),
	}

	// Set default output writer
	if c.config.OutputWriter == nil {
		c.config.OutputWriter = os.Stdout
	}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	c.initializeDomain()
	c.initializeApplication()

	if err := c.initializeAdapters(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize adapters: %w", err)
	}

	return c, nil
}

// initializeInfrastructure selects the storage backend and builds the
// transaction manager around it
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	cfg := c.config.App
	backend := cfg.Backend()
	if backend == "" {
		backend = BackendJSON
	}

	switch backend {
	case BackendJSON, BackendYAML:
		path := cfg.DataFile()
		format := file.FormatJSON
		if backend == BackendYAML {
			format = file.FormatYAML
		}
		if path == "" {
			path = c.paths.TasksJSON
			if format == file.FormatYAML {
				path = c.paths.TasksYAML
			}
		}
		c.taskRepo = file.NewTaskFileRepository(path, format)
		c.storageGateway = storagegateway.NewLocalStorageGateway(backend, path)

	case BackendSQLite:
		path := cfg.DataFile()
		if path == "" {
			path = c.paths.TasksDB
		}
		repo, err := sqliterepo.Open(path)
		if err != nil {
			return err
		}
		c.taskRepo = repo
		c.closers = append(c.closers, repo.Close)
		c.storageGateway = storagegateway.NewLocalStorageGateway(backend, path)

	case BackendNeo4j:
		client, err := neo4jrepo.NewClient(ctx, neo4jrepo.Config{
			URI:      cfg.Neo4jURI(),
			Username: cfg.Neo4jUsername(),
			Password: cfg.Neo4jPassword(),
			Database: cfg.Neo4jDatabase(),
		})
		if err != nil {
			return err
		}
		c.taskRepo = neo4jrepo.NewTaskRepository(client)
		c.closers = append(c.closers, func() error { return client.Close(context.Background()) })
		c.storageGateway = storagegateway.NewStaticStorageGateway(backend, client.Location())

	case BackendMemory:
		c.taskRepo = memory.NewTaskMemoryRepository()
		c.storageGateway = storagegateway.NewStaticStorageGateway(backend, c.taskRepo.Location())

	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	if backend == BackendMemory {
		c.locker = output.NopLocker{}
	} else {
		c.locker = fs.NewFileLocker(c.paths.Lock)
		if cfg.Journal() {
			c.journal = app.NewJournalWriter(c.paths.Journal)
		}
	}

	c.txManager = transaction.NewSnapshotTransactionManager(c.taskRepo, c.locker, c.journal)
	app.GetLogger().Debug("storage: backend=%s location=%s", backend, c.taskRepo.Location())
	return nil
}

// initializeDomain initializes domain services
func (c *Container) initializeDomain() {
	c.lifecycle = service.NewLifecycle(c.config.Clock)
}

// initializeApplication initializes application layer use cases
func (c *Container) initializeApplication() {
	c.taskUseCase = taskusecase.NewTaskUseCaseImpl(c.txManager, c.lifecycle, taskusecase.Options{
		Storage:      c.storageGateway,
		Journal:      c.journal,
		DueSoonDays:  c.config.App.DueSoonDays(),
		Home:         c.paths.Home,
		ConfigSource: c.config.App.ConfigSource(),
	})
}

// initializeAdapters initializes adapter layer components
func (c *Container) initializeAdapters() error {
	p, err := presenter.New(c.config.OutputFormat, c.config.OutputWriter)
	if err != nil {
		return err
	}
	c.presenter = p
	return nil
}

// GetTaskUseCase returns the task use case
func (c *Container) GetTaskUseCase() input.TaskUseCase {
	return c.taskUseCase
}

// GetPresenter returns the presenter
func (c *Container) GetPresenter() output.Presenter {
	return c.presenter
}

// GetStorageGateway returns the storage gateway
func (c *Container) GetStorageGateway() output.StorageGateway {
	return c.storageGateway
}

// GetTaskRepository returns the selected task store
func (c *Container) GetTaskRepository() repository.TaskRepository {
	return c.taskRepo
}

// Today returns the date the lifecycle uses for due and completion dates
func (c *Container) Today() model.Date {
	return c.lifecycle.Today()
}

// GetPaths returns the resolved home paths
func (c *Container) GetPaths() app.Paths {
	return c.paths
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
