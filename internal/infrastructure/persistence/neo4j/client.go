package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Client wraps the Neo4j driver with the target database name
type Client struct {
	driver neo4j.DriverWithContext
	db     string
	uri    string
}

// Config holds Neo4j connection configuration
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// NewClient connects, verifies connectivity and ensures the schema
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j at %s: %w", cfg.URI, err)
	}

	client := &Client{driver: driver, db: cfg.Database, uri: cfg.URI}
	if err := client.initSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return client, nil
}

// Close closes the Neo4j driver
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Session returns a new session on the configured database
func (c *Client) Session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.db})
}

// Location returns uri/database
func (c *Client) Location() string {
	return c.uri + "/" + c.db
}

func (c *Client) initSchema(ctx context.Context) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	queries := []string{
		`CREATE CONSTRAINT todo_task_id IF NOT EXISTS FOR (t:TodoTask) REQUIRE t.id IS UNIQUE`,
		`CREATE INDEX todo_task_position IF NOT EXISTS FOR (t:TodoTask) ON (t.position)`,
	}
	for _, query := range queries {
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to run schema query %q: %w", query, err)
		}
	}
	return nil
}
