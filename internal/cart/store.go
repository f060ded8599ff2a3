package cart

import (
	"context"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

// Store persists serialized cart lines between requests. Load must return
// an empty line set, not an error, when nothing usable is stored for the
// session.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}
