package cards

import (
	"fmt"

	"deckswipe-server/shared/models"
)

// Prerequisite requires a standard card (CardID) or a terminal card (Special) to
// carry every flag of Status.
type Prerequisite struct {
	CardID  *int
	Special string
	Status  models.CardStatus
}

func (p Prerequisite) String() string {
	if p.CardID != nil {
		return fmt.Sprintf("card %d %s", *p.CardID, p.Status)
	}
	return fmt.Sprintf("special %q %s", p.Special, p.Status)
}

func prerequisiteFromDefinition(def models.PrerequisiteDefinition) Prerequisite {
	p := Prerequisite{Special: def.SpecialCard, Status: def.Status}
	if def.CardID != nil {
		id := *def.CardID
		p.CardID = &id
	}
	return p
}

// target resolves the prerequisite against the registry.
func (p Prerequisite) target(r *Registry) (*Card, bool) {
	if p.CardID != nil {
		return r.ForID(*p.CardID)
	}
	if p.Special != "" {
		return r.SpecialCard(p.Special)
	}
	return nil, false
}

// buildDependencies records every prerequisite whose target exists and is not
// yet satisfied, and registers card as a dependent of that target. Missing
// targets are ignored.
func (r *Registry) buildDependencies(card *Card) {
	card.unsatisfied = make(map[int]models.CardStatus)
	for _, p := range card.Prerequisites {
		target, ok := p.target(r)
		if !ok {
			r.logger.Warn("Prerequisite target not found, ignoring condition", cardFields(card, p)...)
			continue
		}
		if target.Status().Has(p.Status) {
			continue
		}
		if _, recorded := card.unsatisfied[target.index]; recorded {
			continue
		}
		card.unsatisfied[target.index] = p.Status
		target.addDependent(card.index)
	}
}

// onDependencyStatusChanged re-checks the prerequisite card has on dependency.
// The pool insertion happens only on the transition of the unsatisfied set from
// non-empty to empty, and entries are never re-added, so it fires at most once.
func (r *Registry) onDependencyStatusChanged(card, dependency *Card) {
	mask, pending := card.unsatisfied[dependency.index]
	if card.PrerequisitesSatisfied() || !pending {
		dependency.removeDependent(card.index)
		return
	}

	if dependency.Status().Has(mask) {
		delete(card.unsatisfied, dependency.index)
		dependency.removeDependent(card.index)
	}

	if card.PrerequisitesSatisfied() {
		r.addDrawable(card)
	}
}
