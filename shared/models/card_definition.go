package models

// Terminal card names. Every registry carries all four.
const (
	SpecialGameOverCoal   = "gameover_coal"
	SpecialGameOverFood   = "gameover_food"
	SpecialGameOverHealth = "gameover_health"
	SpecialGameOverHope   = "gameover_hope"
)

// CharacterDefinition is the character shown on a card.
type CharacterDefinition struct {
	Name   string `json:"name" yaml:"name"`
	Sprite string `json:"sprite,omitempty" yaml:"sprite,omitempty"`
}

// FollowupDefinition schedules a card to reappear after Delay draws.
type FollowupDefinition struct {
	ID    int `json:"id" yaml:"id"`
	Delay int `json:"delay" yaml:"delay"`
}

// OutcomeDefinition describes the consequences of one decision.
type OutcomeDefinition struct {
	Coal     int                 `json:"coal" yaml:"coal"`
	Food     int                 `json:"food" yaml:"food"`
	Health   int                 `json:"health" yaml:"health"`
	Hope     int                 `json:"hope" yaml:"hope"`
	Followup *FollowupDefinition `json:"followup,omitempty" yaml:"followup,omitempty"`
	GameOver bool                `json:"gameOver,omitempty" yaml:"gameOver,omitempty"`
}

// PrerequisiteDefinition requires the target card to carry every flag of Status.
// Exactly one of CardID / SpecialCard is set.
type PrerequisiteDefinition struct {
	CardID      *int       `json:"cardId,omitempty" yaml:"cardId,omitempty"`
	SpecialCard string     `json:"specialCard,omitempty" yaml:"specialCard,omitempty"`
	Status      CardStatus `json:"status" yaml:"status"`
}

// CardDefinition is a card as delivered by the collection import.
type CardDefinition struct {
	ID            int                      `json:"id" yaml:"id"`
	Text          string                   `json:"text" yaml:"text"`
	LeftText      string                   `json:"leftText" yaml:"leftText"`
	RightText     string                   `json:"rightText" yaml:"rightText"`
	Character     CharacterDefinition      `json:"character" yaml:"character"`
	Left          OutcomeDefinition        `json:"left" yaml:"left"`
	Right         OutcomeDefinition        `json:"right" yaml:"right"`
	Prerequisites []PrerequisiteDefinition `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// ImportedCards is the result of a collection import.
type ImportedCards struct {
	Cards        map[int]CardDefinition    `json:"cards" yaml:"cards"`
	SpecialCards map[string]CardDefinition `json:"specialCards" yaml:"specialCards"`
}

// CollectionFile is the on-disk / over-the-wire collection layout. Cards are a list so
// authors do not have to repeat ids as keys.
type CollectionFile struct {
	Cards        []CardDefinition          `json:"cards" yaml:"cards"`
	SpecialCards map[string]CardDefinition `json:"specialCards" yaml:"specialCards"`
}

// Empty reports whether the import produced no standard cards.
func (c *ImportedCards) Empty() bool {
	return c == nil || len(c.Cards) == 0
}
