package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/AJVG007/gestor-tareas/internal/domain"
	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
)

// TareaRepository implements repository.TareaRepository using PostgreSQL.
// Every read and write is filtered by owner_id in the same statement, so a
// tarea belonging to another user scans as no rows.
type TareaRepository struct {
	db DB
}

// NewTareaRepository creates a new PostgreSQL-backed tarea repository.
func NewTareaRepository(db DB) *TareaRepository {
	return &TareaRepository{db: db}
}

// Create inserts a new tarea and fills in the generated ID.
func (r *TareaRepository) Create(ctx context.Context, t *domain.Tarea) error {
	query := `
		INSERT INTO tareas (title, description, completed, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Completed,
		t.OwnerID,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert tarea: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's tareas in creation order, optionally
// filtered by completion state.
func (r *TareaRepository) ListByOwner(ctx context.Context, ownerID string, completed *bool) ([]domain.Tarea, error) {
	query := `
		SELECT id, title, description, completed, owner_id, created_at
		FROM tareas
		WHERE owner_id = $1`
	args := []any{ownerID}

	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tareas: %w", err)
	}
	defer rows.Close()

	var tareas []domain.Tarea
	for rows.Next() {
		var t domain.Tarea
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Completed,
			&t.OwnerID,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tarea row: %w", err)
		}
		tareas = append(tareas, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tarea rows: %w", err)
	}

	if tareas == nil {
		tareas = []domain.Tarea{}
	}

	return tareas, nil
}

// GetByOwnerAndID retrieves a single tarea owned by ownerID.
func (r *TareaRepository) GetByOwnerAndID(ctx context.Context, ownerID string, id int64) (*domain.Tarea, error) {
	query := `
		SELECT id, title, description, completed, owner_id, created_at
		FROM tareas
		WHERE id = $1 AND owner_id = $2`

	var t domain.Tarea
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.OwnerID,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("tarea", id)
		}
		return nil, fmt.Errorf("scan tarea: %w", err)
	}

	return &t, nil
}

// UpdateFields applies the non-nil patch fields to the tarea in a single
// statement and returns the updated record. The owner filter lives in the
// same WHERE clause as the id, so a foreign tarea updates zero rows.
func (r *TareaRepository) UpdateFields(ctx context.Context, ownerID string, id int64, patch domain.TareaPatch) (*domain.Tarea, error) {
	var sets []string
	var args []any

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if patch.Completed != nil {
		args = append(args, *patch.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	args = append(args, id)
	idArg := len(args)
	args = append(args, ownerID)
	ownerArg := len(args)

	query := fmt.Sprintf(`
		UPDATE tareas
		SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING id, title, description, completed, owner_id, created_at`,
		strings.Join(sets, ", "), idArg, ownerArg,
	)

	var t domain.Tarea
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.OwnerID,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("tarea", id)
		}
		return nil, fmt.Errorf("update tarea: %w", err)
	}

	return &t, nil
}

// DeleteByOwnerAndID removes a tarea owned by ownerID.
func (r *TareaRepository) DeleteByOwnerAndID(ctx context.Context, ownerID string, id int64) error {
	query := `DELETE FROM tareas WHERE id = $1 AND owner_id = $2`

	ct, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tarea: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("tarea", id)
	}

	return nil
}
