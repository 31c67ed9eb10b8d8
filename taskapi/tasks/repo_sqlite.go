package tasks

import (
	"database/sql"
	"strings"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var _ Repo = (*SQLiteRepo)(nil)

// SQLiteRepo persists tasks in a SQLite database file.
type SQLiteRepo struct {
	db *sql.DB
}

const taskSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	due_date    TIMESTAMP,
	completed   INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
`

// sortColumns whitelists the sortable fields and maps the API names to
// columns; anything else falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
	"completed": "completed",
}

func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite database %q", path)
	}
	if _, err := db.Exec(taskSchema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create tasks schema")
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) Create(task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO tasks (id, title, description, status, priority, due_date, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.Completed, task.CreatedAt, task.UpdatedAt,
	)
	return errors.Wrapf(err, "insert task")
}

func (r *SQLiteRepo) Get(id string) (*Task, error) {
	row := r.db.QueryRow(
		`SELECT id, title, description, status, priority, due_date, completed, created_at, updated_at
		 FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *SQLiteRepo) Update(task *Task) error {
	task.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, completed = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.Completed, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return errors.Wrapf(err, "update task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(filter Filter, sortFields []SortField) ([]*Task, error) {
	query := `SELECT id, title, description, status, priority, due_date, completed, created_at, updated_at FROM tasks`

	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, filter.Priority)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderBy(sortFields)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "list tasks")
	}
	defer rows.Close()

	var list []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, task)
	}
	return list, rows.Err()
}

func (r *SQLiteRepo) Stats() (*Stats, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, errors.Wrapf(err, "task stats")
	}
	defer rows.Close()

	stats := &Stats{ByStatus: make(map[Status]int)}
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrapf(err, "scan task stats")
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

func orderBy(fields []SortField) string {
	var parts []string
	for _, f := range fields {
		col, ok := sortColumns[f.Field]
		if !ok {
			col = "created_at"
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return "created_at DESC"
	}
	return strings.Join(parts, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var task Task
	var due sql.NullTime
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&due, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, errors.Wrapf(err, "scan task")
	}
	if due.Valid {
		task.DueDate = &due.Time
	}
	return &task, nil
}
