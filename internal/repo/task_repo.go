package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/grpansare/task-management/internal/domain"
)

// TaskRepo provides task persistence.
type TaskRepo interface {
	Create(ctx context.Context, userID int64, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]dom.Task, error)
	Replace(ctx context.Context, id int64, t dom.Task) (dom.Task, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
}

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, title, description, priority, due_date, completed`

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	var due *time.Time
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &due, &t.Completed)
	if err != nil {
		return dom.Task{}, err
	}
	if due != nil {
		d := dom.DateOf(due.UTC())
		t.DueDate = &d
	}
	return t, nil
}

func dueParam(t dom.Task) *time.Time {
	if t.DueDate == nil {
		return nil
	}
	v := t.DueDate.Time()
	return &v
}

func (r *PGTaskRepo) Create(ctx context.Context, userID int64, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, priority, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		userID, t.Title, t.Description, t.Priority, dueParam(t), t.Completed))
}

// GetByID returns the task and the id of the user owning it.
func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, int64, error) {
	query := `
		SELECT ` + taskColumns + `, user_id
		FROM tasks WHERE id = $1`
	var t dom.Task
	var due *time.Time
	var ownerID int64
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &due, &t.Completed, &ownerID)
	if err != nil {
		return dom.Task{}, 0, err
	}
	if due != nil {
		d := dom.DateOf(due.UTC())
		t.DueDate = &d
	}
	return t, ownerID, nil
}

func (r *PGTaskRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Replace(ctx context.Context, id int64, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, due_date = $5, completed = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		id, t.Title, t.Description, t.Priority, dueParam(t), t.Completed))
}

func (r *PGTaskRepo) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Task, error) {
	query := `
		UPDATE tasks SET completed = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, completed))
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
