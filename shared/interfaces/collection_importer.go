package interfaces

import (
	"context"

	"deckswipe-server/shared/models"
)

// CollectionImporter produces the card set. A nil or empty result, or an error,
// makes the registry fall back to placeholder cards.
//
//go:generate mockery --name CollectionImporter --output ./mocks --outpkg mocks --case=underscore
type CollectionImporter interface {
	Import(ctx context.Context) (*models.ImportedCards, error)
}
