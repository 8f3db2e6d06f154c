package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AJVG007/gestor-tareas/internal/domain"
	"github.com/AJVG007/gestor-tareas/internal/event"
	"github.com/AJVG007/gestor-tareas/internal/repository"
)

// TareaService implements the business logic for task operations. Every
// operation takes the authenticated owner's ID; the repository narrows all
// queries by it, so a caller can never observe another user's tareas.
type TareaService struct {
	tareaRepo repository.TareaRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewTareaService creates a new tarea service.
func NewTareaService(
	tareaRepo repository.TareaRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *TareaService {
	return &TareaService{
		tareaRepo: tareaRepo,
		producer:  producer,
		logger:    logger,
	}
}

// CreateInput holds the parameters for creating a new tarea. Ownership is
// never client-supplied: the owner always comes from the authenticated
// identity.
type CreateInput struct {
	Title       string
	Description string
	Completed   bool
}

// List returns all tareas belonging to ownerID in creation order.
func (s *TareaService) List(ctx context.Context, ownerID string) ([]domain.Tarea, error) {
	tareas, err := s.tareaRepo.ListByOwner(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("list tareas: %w", err)
	}
	return tareas, nil
}

// ListCompleted returns the owner's completed tareas in creation order.
func (s *TareaService) ListCompleted(ctx context.Context, ownerID string) ([]domain.Tarea, error) {
	completed := true
	tareas, err := s.tareaRepo.ListByOwner(ctx, ownerID, &completed)
	if err != nil {
		return nil, fmt.Errorf("list completed tareas: %w", err)
	}
	return tareas, nil
}

// Create validates the title and inserts a new tarea for ownerID.
func (s *TareaService) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Tarea, error) {
	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}

	tarea := &domain.Tarea{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.tareaRepo.Create(ctx, tarea); err != nil {
		return nil, fmt.Errorf("create tarea: %w", err)
	}

	// Publish creation event (non-blocking on failure).
	if err := s.producer.PublishTareaCreated(ctx, tarea); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish tarea.created event",
			slog.Int64("tarea_id", tarea.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "tarea created",
		slog.Int64("tarea_id", tarea.ID),
		slog.String("owner_id", ownerID),
	)

	return tarea, nil
}

// Get retrieves a single tarea owned by ownerID.
func (s *TareaService) Get(ctx context.Context, ownerID string, id int64) (*domain.Tarea, error) {
	tarea, err := s.tareaRepo.GetByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return tarea, nil
}

// Update applies a validated partial update to a tarea owned by ownerID and
// returns the updated record.
func (s *TareaService) Update(ctx context.Context, ownerID string, id int64, patch domain.TareaPatch) (*domain.Tarea, error) {
	tarea, err := s.tareaRepo.UpdateFields(ctx, ownerID, id, patch)
	if err != nil {
		return nil, err
	}

	// Publish update event (non-blocking on failure).
	if err := s.producer.PublishTareaUpdated(ctx, tarea); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish tarea.updated event",
			slog.Int64("tarea_id", tarea.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "tarea updated",
		slog.Int64("tarea_id", tarea.ID),
		slog.String("owner_id", ownerID),
	)

	return tarea, nil
}

// Delete removes a tarea owned by ownerID.
func (s *TareaService) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := s.tareaRepo.DeleteByOwnerAndID(ctx, ownerID, id); err != nil {
		return err
	}

	// Publish deletion event (non-blocking on failure).
	if err := s.producer.PublishTareaDeleted(ctx, ownerID, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish tarea.deleted event",
			slog.Int64("tarea_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "tarea deleted",
		slog.Int64("tarea_id", id),
		slog.String("owner_id", ownerID),
	)

	return nil
}
