// Package cards implements the card dependency graph, the drawable pool and the
// followup draw queue.
package cards

import (
	"deckswipe-server/shared/models"
)

// Kind tags the two card variants.
type Kind int

const (
	KindStandard Kind = iota
	KindTerminal
)

func (k Kind) String() string {
	if k == KindTerminal {
		return "terminal"
	}
	return "standard"
}

// Character is the person presenting a card.
type Character struct {
	Name   string `json:"name"`
	Sprite string `json:"sprite,omitempty"`
}

// Card is a node of the dependency graph. Standard cards are keyed by ID, terminal
// cards by Name. Graph edges are arena indexes owned by the Registry.
type Card struct {
	ID        int
	Name      string
	Kind      Kind
	Text      string
	LeftText  string
	RightText string
	Character Character
	Left      Outcome
	Right     Outcome

	Prerequisites []Prerequisite

	index  int
	status *models.CardStatus

	// unsatisfied maps a dependency's arena index to the mask it still has to reach.
	unsatisfied map[int]models.CardStatus
	// dependents lists arena indexes of cards waiting on this one.
	dependents []int
}

func newCard(def models.CardDefinition, kind Kind, name string) *Card {
	c := &Card{
		ID:        def.ID,
		Name:      name,
		Kind:      kind,
		Text:      def.Text,
		LeftText:  def.LeftText,
		RightText: def.RightText,
		Character: Character{Name: def.Character.Name, Sprite: def.Character.Sprite},
		Left:      outcomeFromDefinition(def.Left, kind),
		Right:     outcomeFromDefinition(def.Right, kind),
		status:    new(models.CardStatus),
	}
	for _, p := range def.Prerequisites {
		c.Prerequisites = append(c.Prerequisites, prerequisiteFromDefinition(p))
	}
	return c
}

// Status returns the progress flags of the card.
func (c *Card) Status() models.CardStatus {
	return *c.status
}

// IsTerminal reports whether the card ends the run.
func (c *Card) IsTerminal() bool {
	return c.Kind == KindTerminal
}

// PrerequisitesSatisfied reports whether no prerequisite is pending.
func (c *Card) PrerequisitesSatisfied() bool {
	return len(c.unsatisfied) == 0
}

// Outcome returns the outcome of the given side.
func (c *Card) Outcome(side Side) Outcome {
	if side == SideLeft {
		return c.Left
	}
	return c.Right
}

func (c *Card) addDependent(index int) {
	c.dependents = append(c.dependents, index)
}

func (c *Card) removeDependent(index int) {
	for i, d := range c.dependents {
		if d == index {
			c.dependents = append(c.dependents[:i], c.dependents[i+1:]...)
			return
		}
	}
}

// View is the read-only surface handed to the presentation layer.
type View struct {
	ID        int       `json:"id"`
	Name      string    `json:"name,omitempty"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	LeftText  string    `json:"leftText"`
	RightText string    `json:"rightText"`
	Character Character `json:"character"`
	Status    []string  `json:"status"`
}

// View snapshots the card for display.
func (c *Card) View() View {
	return View{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      c.Kind.String(),
		Text:      c.Text,
		LeftText:  c.LeftText,
		RightText: c.RightText,
		Character: c.Character,
		Status:    c.Status().Flags(),
	}
}
