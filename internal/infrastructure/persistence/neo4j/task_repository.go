package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/YoshitsuguKoike/deetodo/internal/app"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence"
)

// TaskRepository stores tasks as :TodoTask nodes. The depends_on property
// keeps the ordered edge list (dangling ids included); DEPENDS_ON
// relationships mirror the edges whose target still exists.
type TaskRepository struct {
	client *Client
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new task repository
func NewTaskRepository(client *Client) *TaskRepository {
	return &TaskRepository{client: client}
}

// Location returns the server URI and database
func (r *TaskRepository) Location() string {
	return r.client.Location()
}

// Load reads all tasks ordered by position
func (r *TaskRepository) Load(ctx context.Context) ([]*task.Task, error) {
	session := r.client.Session(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `MATCH (t:TodoTask) RETURN t ORDER BY t.position`, nil)
		if err != nil {
			return nil, err
		}
		rows, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		records := make([]persistence.TaskRecord, 0, len(rows))
		for _, row := range rows {
			raw, _ := row.Get("t")
			node, ok := raw.(neo4j.Node)
			if !ok {
				return nil, fmt.Errorf("unexpected value %T for task node", raw)
			}
			records = append(records, propsToRecord(node.Props))
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks, err := persistence.FromRecords(out.([]persistence.TaskRecord))
	if err != nil {
		return nil, err
	}
	if n := persistence.BackfillIDs(tasks); n > 0 {
		app.GetLogger().Info("assigned IDs to %d legacy task(s) in %s", n, r.Location())
		if err := r.Save(ctx, tasks); err != nil {
			return nil, fmt.Errorf("failed to persist backfilled IDs: %w", err)
		}
	}
	return tasks, nil
}

// Save replaces every :TodoTask node in one write transaction
func (r *TaskRepository) Save(ctx context.Context, tasks []*task.Task) error {
	session := r.client.Session(ctx)
	defer session.Close(ctx)

	rows := make([]map[string]any, 0, len(tasks))
	for pos, t := range tasks {
		rows = append(rows, recordToProps(pos, persistence.ToRecord(t)))
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		queries := []struct {
			cypher string
			params map[string]any
		}{
			{cypher: `MATCH (t:TodoTask) DETACH DELETE t`},
			{
				cypher: `UNWIND $rows AS row CREATE (t:TodoTask) SET t = row`,
				params: map[string]any{"rows": rows},
			},
			{cypher: `
MATCH (t:TodoTask)
UNWIND t.depends_on AS dep
MATCH (d:TodoTask {id: dep})
MERGE (t)-[:DEPENDS_ON]->(d)
`},
		}
		for _, q := range queries {
			result, err := tx.Run(ctx, q.cypher, q.params)
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// recordToProps flattens a record into node properties. Empty optional
// fields are omitted because Neo4j has no null properties.
func recordToProps(pos int, rec persistence.TaskRecord) map[string]any {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	deps := rec.DependsOn
	if deps == nil {
		deps = []string{}
	}

	props := map[string]any{
		"id":         rec.ID,
		"position":   int64(pos),
		"text":       rec.Text,
		"completed":  rec.Completed,
		"priority":   rec.Priority,
		"tags":       tags,
		"depends_on": deps,
		"created_at": rec.CreatedAt,
	}
	optional := map[string]string{
		"completed_at": rec.CompletedAt,
		"project":      rec.Project,
		"due_date":     rec.DueDate,
		"recurrence":   rec.Recurrence,
		"parent_id":    rec.ParentID,
	}
	for k, v := range optional {
		if v != "" {
			props[k] = v
		}
	}
	return props
}

func propsToRecord(props map[string]any) persistence.TaskRecord {
	completed, _ := props["completed"].(bool)
	return persistence.TaskRecord{
		ID:          getString(props, "id"),
		Text:        getString(props, "text"),
		Completed:   completed,
		CompletedAt: getString(props, "completed_at"),
		Priority:    getString(props, "priority"),
		Tags:        getStrings(props, "tags"),
		Project:     getString(props, "project"),
		DueDate:     getString(props, "due_date"),
		Recurrence:  getString(props, "recurrence"),
		DependsOn:   getStrings(props, "depends_on"),
		ParentID:    getString(props, "parent_id"),
		CreatedAt:   getString(props, "created_at"),
	}
}

func getString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

// getStrings accepts both []any (driver results) and []string
func getStrings(props map[string]any, key string) []string {
	switch v := props[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
