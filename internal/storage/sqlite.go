package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// initSchema bootstraps every table the engine touches. The record tables are
// owned by the record services in the full application; creating them here
// keeps the engine runnable and testable on its own.
func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		deleted_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		priority TEXT NOT NULL DEFAULT '',
		deadline TIMESTAMP,
		deleted_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_updated ON tasks(updated_at);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		task_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		usage_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS task_categories (
		task_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL,
		PRIMARY KEY (task_id, category_id),
		FOREIGN KEY (task_id) REFERENCES tasks(id),
		FOREIGN KEY (category_id) REFERENCES categories(id)
	);

	CREATE TABLE IF NOT EXISTS task_tags (
		task_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (task_id, tag_id),
		FOREIGN KEY (task_id) REFERENCES tasks(id),
		FOREIGN KEY (tag_id) REFERENCES tags(id)
	);

	CREATE TABLE IF NOT EXISTS search_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		query TEXT NOT NULL,
		search_type TEXT NOT NULL,
		filters TEXT,
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_user_created ON search_history(user_id, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// containsPattern wraps a raw query into a LIKE pattern matching anywhere.
func containsPattern(query string) string {
	return "%" + query + "%"
}

// prefixPattern wraps a raw query into a LIKE pattern matching at the start.
func prefixPattern(query string) string {
	return query + "%"
}

// SearchTasks finds non-deleted tasks of the user whose name or description
// contains query, case-insensitively. Prefix matches on the name order before
// plain substring matches; ties break on most-recently-updated first.
func (s *SQLiteStore) SearchTasks(ctx context.Context, userID int64, query string) ([]*TaskRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.description, t.project_id, p.name,
		       t.status, t.priority, t.deadline, t.created_at, t.updated_at
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE p.user_id = ?
		  AND t.deleted_at IS NULL
		  AND p.deleted_at IS NULL
		  AND (t.name LIKE ? OR t.description LIKE ?)
		ORDER BY CASE WHEN t.name LIKE ? THEN 0 ELSE 1 END, t.updated_at DESC`,
		userID, containsPattern(query), containsPattern(query), prefixPattern(query),
	)
	if err != nil {
		return nil, fmt.Errorf("task search failed: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// SearchProjects finds non-deleted projects of the user matching query.
func (s *SQLiteStore) SearchProjects(ctx context.Context, userID int64, query string) ([]*ProjectRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM projects
		WHERE user_id = ?
		  AND deleted_at IS NULL
		  AND (name LIKE ? OR description LIKE ?)
		ORDER BY CASE WHEN name LIKE ? THEN 0 ELSE 1 END, updated_at DESC`,
		userID, containsPattern(query), containsPattern(query), prefixPattern(query),
	)
	if err != nil {
		return nil, fmt.Errorf("project search failed: %w", err)
	}
	defer rows.Close()

	var projects []*ProjectRow
	for rows.Next() {
		var p ProjectRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// SearchCategories finds categories of the user matching query, with
// task_count carried for popularity weighting.
func (s *SQLiteStore) SearchCategories(ctx context.Context, userID int64, query string) ([]*CatalogRow, error) {
	return s.searchCatalog(ctx, "categories", "task_count", userID, query)
}

// SearchTags finds tags of the user matching query, with usage_count carried
// for popularity weighting.
func (s *SQLiteStore) SearchTags(ctx context.Context, userID int64, query string) ([]*CatalogRow, error) {
	return s.searchCatalog(ctx, "tags", "usage_count", userID, query)
}

func (s *SQLiteStore) searchCatalog(ctx context.Context, table, countColumn string, userID int64, query string) ([]*CatalogRow, error) {
	// table and countColumn come from the two fixed call sites above,
	// never from callers.
	stmt := fmt.Sprintf(`
		SELECT id, name, description, %s, created_at, updated_at
		FROM %s
		WHERE user_id = ?
		  AND (name LIKE ? OR description LIKE ?)
		ORDER BY CASE WHEN name LIKE ? THEN 0 ELSE 1 END, updated_at DESC`,
		countColumn, table,
	)
	rows, err := s.db.QueryContext(ctx, stmt,
		userID, containsPattern(query), containsPattern(query), prefixPattern(query),
	)
	if err != nil {
		return nil, fmt.Errorf("%s search failed: %w", table, err)
	}
	defer rows.Close()

	var entries []*CatalogRow
	for rows.Next() {
		var c CatalogRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &c)
	}
	return entries, rows.Err()
}

func scanTaskRows(rows *sql.Rows) ([]*TaskRow, error) {
	var tasks []*TaskRow
	for rows.Next() {
		var t TaskRow
		var deadline sql.NullTime
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.ProjectID, &t.ProjectName,
			&t.Status, &t.Priority, &deadline, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if deadline.Valid {
			d := deadline.Time
			t.Deadline = &d
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
