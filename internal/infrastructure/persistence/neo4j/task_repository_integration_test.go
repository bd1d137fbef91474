//go:build integration
// +build integration

package neo4j

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// Run with: go test -tags=integration ./internal/infrastructure/persistence/neo4j
// against a disposable database; Save replaces every :TodoTask node.
func TestTaskRepository_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(ctx, Config{
		URI:      getEnvOrDefault("NEO4J_URI", "bolt://localhost:7687"),
		Username: getEnvOrDefault("NEO4J_USERNAME", "neo4j"),
		Password: getEnvOrDefault("NEO4J_PASSWORD", "password"),
		Database: getEnvOrDefault("NEO4J_DATABASE", "neo4j"),
	})
	require.NoError(t, err, "Neo4j must be reachable for integration tests")
	defer client.Close(ctx)

	repo := NewTaskRepository(client)
	today := model.Today()

	a, err := task.New(task.Params{Text: "pour foundation", Tags: []string{"build"}}, today)
	require.NoError(t, err)
	b, err := task.New(task.Params{Text: "frame walls", DueDate: today.AddDays(3), Recurrence: model.RecurrenceMonthly}, today)
	require.NoError(t, err)
	b.AddDependencies([]model.TaskID{a.ID()})

	require.NoError(t, repo.Save(ctx, []*task.Task{a, b}))
	defer repo.Save(ctx, nil)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, a.Snapshot(), loaded[0].Snapshot())
	assert.Equal(t, b.Snapshot(), loaded[1].Snapshot())

	session := client.Session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx,
		`MATCH (:TodoTask {id: $from})-[r:DEPENDS_ON]->(:TodoTask {id: $to}) RETURN count(r) AS n`,
		map[string]any{"from": b.ID().String(), "to": a.ID().String()})
	require.NoError(t, err)
	record, err := result.Single(ctx)
	require.NoError(t, err)
	n, _ := record.Get("n")
	assert.Equal(t, int64(1), n)
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
