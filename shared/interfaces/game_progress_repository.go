package interfaces

import (
	"context"

	"deckswipe-server/shared/models"

	"github.com/google/uuid"
)

// GameProgressRepository stores one GameProgress record per player.
//
//go:generate mockery --name GameProgressRepository --output ./mocks --outpkg mocks --case=underscore
type GameProgressRepository interface {
	// Get loads the player's progress.
	// Returns models.ErrNotFound if the player has no record yet.
	Get(ctx context.Context, playerID uuid.UUID) (*models.GameProgress, error)

	// Save creates or replaces the player's progress record.
	Save(ctx context.Context, playerID uuid.UUID, progress *models.GameProgress) error
}
