package cards

import (
	"fmt"

	"deckswipe-server/internal/stats"
	"deckswipe-server/shared/models"

	"go.uber.org/zap"
)

// DrawSource tells where a drawn card came from.
type DrawSource string

const (
	SourceTerminal DrawSource = "terminal"
	SourceFollowup DrawSource = "followup"
	SourceRandom   DrawSource = "random"
)

var terminalCards = map[stats.Resource]string{
	stats.Coal:   models.SpecialGameOverCoal,
	stats.Food:   models.SpecialGameOverFood,
	stats.Health: models.SpecialGameOverHealth,
	stats.Hope:   models.SpecialGameOverHope,
}

// Draw is the scheduler's decision.
type Draw struct {
	Card   *Card
	Source DrawSource
	// Exhausted is set for terminal draws.
	Exhausted stats.Resource
}

// SelectNext picks the next card: the terminal card of the first exhausted
// resource, else a due followup, else a random drawable card. A due followup
// whose card no longer exists falls back to a random draw.
func SelectNext(m *stats.Model, r *Registry, q *DrawQueue, rng RNG) (Draw, error) {
	if resource, ok := m.Terminal(); ok {
		name := terminalCards[resource]
		card, found := r.SpecialCard(name)
		if !found {
			return Draw{}, fmt.Errorf("terminal card %q: %w", name, models.ErrCardNotFound)
		}
		return Draw{Card: card, Source: SourceTerminal, Exhausted: resource}, nil
	}

	if followup, ok := q.Next(); ok {
		if card, found := r.ForID(followup.ID); found {
			return Draw{Card: card, Source: SourceFollowup}, nil
		}
		r.logger.Warn("Followup card not found, drawing at random", zap.Int("followupID", followup.ID))
	}

	card, err := r.Random(rng)
	if err != nil {
		return Draw{}, err
	}
	return Draw{Card: card, Source: SourceRandom}, nil
}
