package contract

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"prepezia-be/internal/entity"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/pkg/progress"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// PatchGeneratedContent writes one content kind's payload as a JSONB
	// key-level patch, so concurrent writes to different kinds never clobber
	// each other. An existing payload for the same kind is overwritten.
	PatchGeneratedContent(ctx context.Context, id uuid.UUID, kind entity.ContentKind, payload json.RawMessage) error

	// RemoveContentKind deletes the kind's payload and writes the new signal
	// map plus the recomputed progress pair in a single UPDATE, so the
	// payload and its signals can never go out of step.
	RemoveContentKind(ctx context.Context, id uuid.UUID, kind entity.ContentKind, signals progress.SignalMap, pct int, status progress.Status) error

	// PatchProgress writes the merged signal map and the derived pair in one
	// UPDATE. Callers are expected to skip the call when nothing changed.
	PatchProgress(ctx context.Context, id uuid.UUID, signals progress.SignalMap, pct int, status progress.Status) error
}
