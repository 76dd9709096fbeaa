package interfaces

import (
	"context"

	"deckswipe-server/shared/models"
)

// RunEventPublisher publishes run lifecycle events (started, ended) for
// downstream consumers such as leaderboards.
//
//go:generate mockery --name RunEventPublisher --output ./mocks --outpkg mocks --case=underscore
type RunEventPublisher interface {
	PublishRunEvent(ctx context.Context, event models.RunEvent) error
}
