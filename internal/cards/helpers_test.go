package cards_test

import (
	"testing"

	"deckswipe-server/internal/cards"
	"deckswipe-server/shared/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// deterministicRNG returns values from a pre-set sequence.
type deterministicRNG struct {
	values []int
	idx    int
}

func (r *deterministicRNG) IntN(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

func intPtr(v int) *int { return &v }

func card(id int, prereqs ...models.PrerequisiteDefinition) models.CardDefinition {
	return models.CardDefinition{
		ID:            id,
		Text:          "card",
		LeftText:      "no",
		RightText:     "yes",
		Prerequisites: prereqs,
	}
}

func needs(id int, status models.CardStatus) models.PrerequisiteDefinition {
	return models.PrerequisiteDefinition{CardID: intPtr(id), Status: status}
}

func needsSpecial(name string, status models.CardStatus) models.PrerequisiteDefinition {
	return models.PrerequisiteDefinition{SpecialCard: name, Status: status}
}

func collection(defs ...models.CardDefinition) *models.ImportedCards {
	imported := &models.ImportedCards{
		Cards:        make(map[int]models.CardDefinition, len(defs)),
		SpecialCards: map[string]models.CardDefinition{},
	}
	for _, d := range defs {
		imported.Cards[d.ID] = d
	}
	return imported
}

// newResolvedRegistry loads defs with the given progress and resolves the graph.
func newResolvedRegistry(t *testing.T, progress *models.GameProgress, defs ...models.CardDefinition) *cards.Registry {
	t.Helper()
	r := cards.NewRegistry(zap.NewNop())
	r.Load(collection(defs...), nil)
	if progress == nil {
		progress = models.NewGameProgress()
	}
	require.NoError(t, r.AttachProgress(progress))
	require.NoError(t, r.ResolvePrerequisites())
	return r
}

func mustCard(t *testing.T, r *cards.Registry, id int) *cards.Card {
	t.Helper()
	c, ok := r.ForID(id)
	require.True(t, ok, "card %d", id)
	return c
}

func countInPool(r *cards.Registry, id int) int {
	n := 0
	for _, d := range r.Drawable() {
		if d == id {
			n++
		}
	}
	return n
}
