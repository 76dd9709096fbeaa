package cards

import (
	"fmt"
	"sort"

	"deckswipe-server/shared/models"

	"go.uber.org/zap"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

// Registry owns every card of one save file: the arena of standard and terminal
// cards, the lookup indexes and the pool of currently drawable cards.
type Registry struct {
	cards     []*Card
	byID      map[int]int
	bySpecial map[string]int
	drawable  []int
	resolved  bool
	logger    *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		byID:      make(map[int]int),
		bySpecial: make(map[string]int),
		logger:    logger.Named("CardRegistry"),
	}
}

// Load builds the arena from an import result. A failed or empty import is
// replaced by the fallback collection; missing terminal cards get defaults.
func (r *Registry) Load(imported *models.ImportedCards, importErr error) {
	r.cards = nil
	r.byID = make(map[int]int)
	r.bySpecial = make(map[string]int)
	r.drawable = nil
	r.resolved = false

	var defs map[int]models.CardDefinition
	var specials map[string]models.CardDefinition
	if imported != nil {
		defs = imported.Cards
		specials = imported.SpecialCards
	}

	switch {
	case importErr != nil:
		r.logger.Warn("Card collection import failed, using fallback cards", zap.Error(importErr))
		defs = fallbackCards()
	case len(defs) == 0:
		r.logger.Warn("Card collection is empty, using fallback cards")
		defs = fallbackCards()
	}

	ids := make([]int, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		def := defs[id]
		def.ID = id
		r.add(newCard(def, KindStandard, ""))
	}

	names := make([]string, 0, len(specials))
	for name := range specials {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.add(newCard(specials[name], KindTerminal, name))
	}
	r.verifySpecialCards()

	r.logger.Info("Card collection loaded",
		zap.Int("cards", len(r.byID)),
		zap.Int("specialCards", len(r.bySpecial)))
}

func (r *Registry) add(c *Card) {
	c.index = len(r.cards)
	r.cards = append(r.cards, c)
	if c.Kind == KindTerminal {
		r.bySpecial[c.Name] = c.index
	} else {
		r.byID[c.ID] = c.index
	}
}

func (r *Registry) verifySpecialCards() {
	for _, name := range defaultSpecialOrder {
		if _, ok := r.bySpecial[name]; ok {
			continue
		}
		r.logger.Warn("Special card missing from collection, using default", zap.String("special", name))
		r.add(newCard(defaultSpecialCards[name], KindTerminal, name))
	}
}

// AttachProgress points every card at its persisted status. Cards without an
// entry get a fresh None entry appended to progress, once per card.
func (r *Registry) AttachProgress(progress *models.GameProgress) error {
	if r.resolved {
		return fmt.Errorf("attach progress: %w", models.ErrAlreadyResolved)
	}
	attached := make(map[int]bool, len(r.cards))

	for _, entry := range progress.CardProgress {
		if entry == nil {
			continue
		}
		if c, ok := r.ForID(entry.ID); ok {
			c.status = &entry.Status
			attached[c.index] = true
		}
	}
	for _, entry := range progress.SpecialCardProgress {
		if entry == nil {
			continue
		}
		if c, ok := r.SpecialCard(entry.ID); ok {
			c.status = &entry.Status
			attached[c.index] = true
		}
	}

	// Fill in the missing progress entries
	for _, c := range r.cards {
		if attached[c.index] {
			continue
		}
		if c.Kind == KindTerminal {
			entry := &models.SpecialCardProgress{ID: c.Name, Status: c.Status()}
			progress.SpecialCardProgress = append(progress.SpecialCardProgress, entry)
			c.status = &entry.Status
		} else {
			entry := &models.CardProgress{ID: c.ID, Status: c.Status()}
			progress.CardProgress = append(progress.CardProgress, entry)
			c.status = &entry.Status
		}
		attached[c.index] = true
	}
	return nil
}

// ResolvePrerequisites builds the dependency graph and seeds the drawable pool.
// It runs once per registry.
func (r *Registry) ResolvePrerequisites() error {
	if r.resolved {
		return models.ErrAlreadyResolved
	}
	r.resolved = true
	for _, c := range r.cards {
		if c.Kind != KindStandard {
			continue
		}
		r.buildDependencies(c)
		if c.PrerequisitesSatisfied() {
			r.addDrawable(c)
		}
	}
	r.logger.Debug("Prerequisites resolved", zap.Int("drawable", len(r.drawable)))
	return nil
}

// Resolved reports whether ResolvePrerequisites has run.
func (r *Registry) Resolved() bool {
	return r.resolved
}

func (r *Registry) addDrawable(c *Card) {
	r.drawable = append(r.drawable, c.index)
}

// Random returns a uniformly random drawable card.
func (r *Registry) Random(rng RNG) (*Card, error) {
	if len(r.drawable) == 0 {
		r.logger.Error("Random draw from an empty pool")
		return nil, models.ErrEmptyDrawablePool
	}
	return r.cards[r.drawable[rng.IntN(len(r.drawable))]], nil
}

// ForID looks up a standard card.
func (r *Registry) ForID(id int) (*Card, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.cards[i], true
}

// SpecialCard looks up a terminal card by name.
func (r *Registry) SpecialCard(name string) (*Card, bool) {
	i, ok := r.bySpecial[name]
	if !ok {
		return nil, false
	}
	return r.cards[i], true
}

// Drawable returns the ids of the drawable pool in insertion order.
func (r *Registry) Drawable() []int {
	ids := make([]int, len(r.drawable))
	for i, idx := range r.drawable {
		ids[i] = r.cards[idx].ID
	}
	return ids
}

// Len returns the number of standard cards.
func (r *Registry) Len() int {
	return len(r.byID)
}

// MarkShown sets CardShown on c and propagates the change.
func (r *Registry) MarkShown(c *Card) {
	r.markStatus(c, models.CardShown)
}

// MarkDecision sets the flag of side on c and propagates the change.
func (r *Registry) MarkDecision(c *Card, side Side) {
	r.markStatus(c, side.Flag())
}

func (r *Registry) markStatus(c *Card, flag models.CardStatus) {
	*c.status = c.Status().With(flag)
	// dependents remove themselves during the callback, iterate over a snapshot
	dependents := append([]int(nil), c.dependents...)
	for _, i := range dependents {
		r.onDependencyStatusChanged(r.cards[i], c)
	}
}

func cardFields(c *Card, p Prerequisite) []zap.Field {
	return []zap.Field{
		zap.Int("cardID", c.ID),
		zap.Stringer("prerequisite", p),
	}
}
