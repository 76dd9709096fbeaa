package cards

import (
	"fmt"
	"strings"

	"deckswipe-server/internal/stats"
	"deckswipe-server/shared/models"
)

// Side is one of the two decisions on a card.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide validates a side coming from the presentation layer.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrInvalidSide, s)
}

// Flag returns the status flag set when the side is committed.
func (s Side) Flag() models.CardStatus {
	if s == SideLeft {
		return models.LeftActionTaken
	}
	return models.RightActionTaken
}

// Followup schedules card ID to be drawn after Delay draws.
type Followup struct {
	ID    int `json:"id"`
	Delay int `json:"delay"`
}

// Outcome is the consequence of one decision.
type Outcome struct {
	Stats    stats.Modification
	Followup *Followup
	// GameOver outcomes end the run instead of drawing the next card.
	GameOver bool
}

// Perform applies the stat delta and enqueues the followup, if any.
func (o Outcome) Perform(m *stats.Model, q *DrawQueue) {
	m.Apply(o.Stats)
	if o.Followup != nil {
		q.Insert(*o.Followup)
	}
}

func outcomeFromDefinition(def models.OutcomeDefinition, kind Kind) Outcome {
	o := Outcome{
		Stats: stats.Modification{
			Coal:   def.Coal,
			Food:   def.Food,
			Health: def.Health,
			Hope:   def.Hope,
		},
		GameOver: def.GameOver || kind == KindTerminal,
	}
	if def.Followup != nil {
		o.Followup = &Followup{ID: def.Followup.ID, Delay: def.Followup.Delay}
	}
	return o
}
