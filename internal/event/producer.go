package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AJVG007/gestor-tareas/internal/domain"
	pkgkafka "github.com/AJVG007/gestor-tareas/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicUserRegistered = "tareas.user.registered"
	TopicTareaCreated   = "tareas.tarea.created"
	TopicTareaUpdated   = "tareas.tarea.updated"
	TopicTareaDeleted   = "tareas.tarea.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeUser  = "user"
	AggregateTypeTarea = "tarea"
)

// Source identifier for events originating from this service.
const SourceTareasAPI = "gestor-tareas"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TareaData is the payload shared by tarea.created and tarea.updated events.
type TareaData struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TareaDeletedData is the payload for a tarea.deleted event.
type TareaDeletedData struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"owner_id"`
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceTareasAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}

// PublishTareaCreated publishes a tarea.created event.
func (p *Producer) PublishTareaCreated(ctx context.Context, tarea *domain.Tarea) error {
	return p.publishTarea(ctx, TopicTareaCreated, tarea)
}

// PublishTareaUpdated publishes a tarea.updated event.
func (p *Producer) PublishTareaUpdated(ctx context.Context, tarea *domain.Tarea) error {
	return p.publishTarea(ctx, TopicTareaUpdated, tarea)
}

// PublishTareaDeleted publishes a tarea.deleted event.
func (p *Producer) PublishTareaDeleted(ctx context.Context, ownerID string, id int64) error {
	data := TareaDeletedData{
		ID:      id,
		OwnerID: ownerID,
	}

	event, err := pkgkafka.NewEvent(TopicTareaDeleted, fmt.Sprintf("%d", id), AggregateTypeTarea, SourceTareasAPI, data)
	if err != nil {
		return fmt.Errorf("create tarea.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTareaDeleted, event); err != nil {
		return fmt.Errorf("publish tarea.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published tarea.deleted event",
		slog.Int64("tarea_id", id),
		slog.String("owner_id", ownerID),
	)

	return nil
}

func (p *Producer) publishTarea(ctx context.Context, topic string, tarea *domain.Tarea) error {
	data := TareaData{
		ID:        tarea.ID,
		Title:     tarea.Title,
		Completed: tarea.Completed,
		OwnerID:   tarea.OwnerID,
		CreatedAt: tarea.CreatedAt,
	}

	event, err := pkgkafka.NewEvent(topic, fmt.Sprintf("%d", tarea.ID), AggregateTypeTarea, SourceTareasAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published tarea event",
		slog.String("topic", topic),
		slog.Int64("tarea_id", tarea.ID),
		slog.String("owner_id", tarea.OwnerID),
	)

	return nil
}
