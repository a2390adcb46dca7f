package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskUpdate carries a partial update. A nil field is left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

func (r *TaskRepository) Create(ctx context.Context, ownerID uuid.UUID, title string, description *string, completed bool) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO task (title, description, completed, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+taskColumns,
		title, description, completed, ownerID,
	)
	return scanTask(row)
}

// List returns the owner's tasks ordered by creation time ascending. The
// table has no other deterministic order, so the sort is imposed here.
func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM task
		 WHERE user_id = $1
		 ORDER BY created_at ASC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+`
		 FROM task
		 WHERE user_id = $1 AND id = $2`,
		ownerID, taskID,
	)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

// Update applies only the fields set in upd. Owner scoping in the WHERE
// clause is the authorization check; a foreign task looks like no rows.
func (r *TaskRepository) Update(ctx context.Context, ownerID, taskID uuid.UUID, upd TaskUpdate) (*domain.Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	if upd.Title != nil {
		args = append(args, *upd.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.Completed != nil {
		args = append(args, *upd.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}

	args = append(args, ownerID, taskID)
	query := fmt.Sprintf(
		`UPDATE task SET %s WHERE user_id = $%d AND id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), taskColumns,
	)

	t, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM task WHERE user_id = $1 AND id = $2`,
		ownerID, taskID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
