package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/traintrack/traintrack-go/internal/model"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepository handles task persistence. Every query is scoped by owner id;
// no operation can observe or touch another owner's rows.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, owner_id, title, completed, priority, status, due_date, created_at`

// ListByOwner retrieves all tasks belonging to ownerID, newest id first.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Create inserts a new task and reads back the full created record,
// including the generated id and timestamp.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (owner_id, title, completed, priority, status, due_date)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		task.OwnerID, task.Title, task.Completed, task.Priority, task.Status, task.DueDate,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	created, err := r.GetOwned(ctx, id, task.OwnerID)
	if err != nil {
		return err
	}

	*task = *created
	return nil
}

// GetOwned retrieves a task by id, scoped by owner.
func (r *TaskRepository) GetOwned(ctx context.Context, taskID, ownerID int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

	t := &model.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return t, nil
}

// ExistsOwned reports whether a task with the given id belongs to ownerID.
// An id owned by someone else is indistinguishable from an absent one.
func (r *TaskRepository) ExistsOwned(ctx context.Context, taskID, ownerID int64) (bool, error) {
	query := `SELECT 1 FROM tasks WHERE id = ? AND owner_id = ?`

	var one int
	err := r.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update applies each present field as an owner-scoped write. All writes run
// inside one transaction so a mid-update failure rolls back rather than
// leaving a half-applied record.
//
// The completed/status steady-state relation is maintained by derivation:
// when status is supplied without completed, completed follows the status;
// when completed is supplied without status, status becomes "completed" or
// "scheduled". An explicitly supplied field always wins over derivation.
func (r *TaskRepository) Update(ctx context.Context, taskID, ownerID int64, fields model.UpdateTaskRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	apply := func(column string, value any) error {
		query := fmt.Sprintf(`UPDATE tasks SET %s = ? WHERE id = ? AND owner_id = ?`, column)
		_, err := tx.ExecContext(ctx, query, value, taskID, ownerID)
		return err
	}

	if fields.Title != nil {
		if err := apply("title", *fields.Title); err != nil {
			return err
		}
	}
	if fields.Completed != nil {
		if err := apply("completed", *fields.Completed); err != nil {
			return err
		}
	}
	if fields.Priority != nil {
		if err := apply("priority", *fields.Priority); err != nil {
			return err
		}
	}
	if fields.Status != nil {
		if err := apply("status", *fields.Status); err != nil {
			return err
		}
		if fields.Completed == nil {
			derived := *fields.Status == string(model.StatusCompleted)
			if err := apply("completed", derived); err != nil {
				return err
			}
		}
	}
	if fields.Completed != nil && fields.Status == nil {
		derived := model.StatusScheduled
		if *fields.Completed {
			derived = model.StatusCompleted
		}
		if err := apply("status", derived); err != nil {
			return err
		}
	}
	if fields.DueDate != nil {
		if err := apply("due_date", *fields.DueDate); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes an owner-scoped task and returns the number of rows
// affected; zero means the id does not exist or belongs to another owner.
func (r *TaskRepository) Delete(ctx context.Context, taskID, ownerID int64) (int64, error) {
	query := `DELETE FROM tasks WHERE id = ? AND owner_id = ?`

	result, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner, t *model.Task) error {
	return row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Completed,
		&t.Priority, &t.Status, &t.DueDate, &t.CreatedAt,
	)
}
