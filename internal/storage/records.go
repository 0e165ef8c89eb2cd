package storage

import (
	"context"
	"fmt"
	"time"
)

// The record services own task/project/category/tag CRUD in the full
// application. The insert helpers below are the minimal write surface the
// engine ships so it stays runnable and testable standalone: schema bootstrap
// plus row seeding, nothing more.

// Project is an insertable project record.
type Project struct {
	UserID      int64
	Name        string
	Description string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task is an insertable task record.
type Task struct {
	ProjectID   int64
	Name        string
	Description string
	Status      string
	Priority    string
	Deadline    *time.Time
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category is an insertable category record.
type Category struct {
	UserID      int64
	Name        string
	Description string
	TaskCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag is an insertable tag record.
type Tag struct {
	UserID      int64
	Name        string
	Description string
	UsageCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func deletedAt(deleted bool) any {
	if deleted {
		return time.Now()
	}
	return nil
}

// InsertProject inserts a project and returns its id.
func (s *SQLiteStore) InsertProject(ctx context.Context, p Project) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (user_id, name, description, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Description, deletedAt(p.Deleted), orNow(p.CreatedAt), orNow(p.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("project insert failed: %w", err)
	}
	return res.LastInsertId()
}

// InsertTask inserts a task and returns its id.
func (s *SQLiteStore) InsertTask(ctx context.Context, t Task) (int64, error) {
	status := t.Status
	if status == "" {
		status = "pending"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (project_id, name, description, status, priority, deadline, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.Name, t.Description, status, t.Priority, t.Deadline,
		deletedAt(t.Deleted), orNow(t.CreatedAt), orNow(t.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("task insert failed: %w", err)
	}
	return res.LastInsertId()
}

// InsertCategory inserts a category and returns its id.
func (s *SQLiteStore) InsertCategory(ctx context.Context, c Category) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, description, task_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Description, c.TaskCount, orNow(c.CreatedAt), orNow(c.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("category insert failed: %w", err)
	}
	return res.LastInsertId()
}

// InsertTag inserts a tag and returns its id.
func (s *SQLiteStore) InsertTag(ctx context.Context, t Tag) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (user_id, name, description, usage_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Name, t.Description, t.UsageCount, orNow(t.CreatedAt), orNow(t.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("tag insert failed: %w", err)
	}
	return res.LastInsertId()
}

// AssignCategory adds a task-category membership row.
func (s *SQLiteStore) AssignCategory(ctx context.Context, taskID, categoryID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_categories (task_id, category_id) VALUES (?, ?)`,
		taskID, categoryID,
	)
	return err
}

// AssignTag adds a task-tag membership row.
func (s *SQLiteStore) AssignTag(ctx context.Context, taskID, tagID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`,
		taskID, tagID,
	)
	return err
}
