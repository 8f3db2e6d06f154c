package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
)

// Title length bounds, enforced identically at request validation and at the
// storage constraint.
const (
	TitleMinLen = 3
	TitleMaxLen = 255
)

// The short-title message is surfaced verbatim to clients, at create and
// update alike.
const (
	titleTooShortMessage = "Title must be at least 3 characters long."
	titleTooLongMessage  = "Title must be at most 255 characters long."
)

// Tarea is a task record owned by exactly one user. OwnerID is assigned
// server-side from the authenticated identity and is never client-supplied.
type Tarea struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	OwnerID     string    `json:"-"`
}

// ValidateTitle checks the title length bounds.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < TitleMinLen {
		return apperrors.InvalidInput(titleTooShortMessage)
	}
	if n > TitleMaxLen {
		return apperrors.InvalidInput(titleTooLongMessage)
	}
	return nil
}

// TareaPatch is a partial update. Nil fields are left unchanged.
type TareaPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TareaPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// updatableFields is the whitelist of fields a client may change.
var updatableFields = "title, description, and completed"

// ComputeUpdate splits a raw PATCH payload into an applicable patch and the
// set of rejected field names. Any field outside {title, description,
// completed} rejects the whole request; an effectively empty payload is also
// an error. The patch is all-or-nothing: callers must apply it only when the
// returned error is nil.
func ComputeUpdate(payload map[string]json.RawMessage) (TareaPatch, error) {
	var patch TareaPatch
	var rejected []string

	for field, raw := range payload {
		switch field {
		case "title":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return TareaPatch{}, apperrors.InvalidInput("title must be a string")
			}
			patch.Title = &v
		case "description":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return TareaPatch{}, apperrors.InvalidInput("description must be a string")
			}
			patch.Description = &v
		case "completed":
			var v bool
			if err := json.Unmarshal(raw, &v); err != nil {
				return TareaPatch{}, apperrors.InvalidInput("completed must be a boolean")
			}
			patch.Completed = &v
		default:
			rejected = append(rejected, field)
		}
	}

	if len(rejected) > 0 {
		sort.Strings(rejected)
		return TareaPatch{}, apperrors.InvalidInput(fmt.Sprintf(
			"Invalid fields: %s. Only %s can be updated.",
			strings.Join(rejected, ", "), updatableFields,
		))
	}

	if patch.IsEmpty() {
		return TareaPatch{}, apperrors.InvalidInput(fmt.Sprintf(
			"No valid fields to update. Only %s can be updated.", updatableFields,
		))
	}

	if patch.Title != nil {
		if err := ValidateTitle(*patch.Title); err != nil {
			return TareaPatch{}, err
		}
	}

	return patch, nil
}
