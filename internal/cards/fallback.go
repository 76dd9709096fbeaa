package cards

import "deckswipe-server/shared/models"

var placeholderPerson = models.CharacterDefinition{Name: "Placeholder Person"}

// fallbackCards keeps the game playable when no collection could be imported.
func fallbackCards() map[int]models.CardDefinition {
	return map[int]models.CardDefinition{
		0: {
			ID:        0,
			Text:      "Placeholder card 1",
			LeftText:  "A",
			RightText: "B",
			Character: placeholderPerson,
			Left:      models.OutcomeDefinition{Coal: -2, Food: 4, Health: -2, Hope: 2},
			Right:     models.OutcomeDefinition{Coal: 2, Food: 0, Health: 2, Hope: -2},
		},
		1: {
			ID:        1,
			Text:      "Placeholder card 2",
			LeftText:  "A",
			RightText: "B",
			Character: placeholderPerson,
			Left:      models.OutcomeDefinition{Coal: -1, Food: -1, Health: -1, Hope: -1},
			Right:     models.OutcomeDefinition{Coal: 2, Food: 2, Health: 2, Hope: 2},
		},
		2: {
			ID:        2,
			Text:      "Placeholder card 3",
			LeftText:  "A",
			RightText: "B",
			Character: placeholderPerson,
			Left:      models.OutcomeDefinition{Coal: 1, Food: 1, Health: 0, Hope: -2},
			Right:     models.OutcomeDefinition{Coal: 2, Food: 2, Health: -2, Hope: -4},
		},
	}
}

var defaultSpecialOrder = []string{
	models.SpecialGameOverCoal,
	models.SpecialGameOverFood,
	models.SpecialGameOverHealth,
	models.SpecialGameOverHope,
}

var defaultSpecialCards = map[string]models.CardDefinition{
	models.SpecialGameOverCoal: {
		Text: "The city runs out of coal to run the generator, and freezes over.",
	},
	models.SpecialGameOverFood: {
		Text: "Hunger consumes the city, as food reserves deplete.",
	},
	models.SpecialGameOverHealth: {
		Text: "The city's population succumbs to wounds and spreading diseases.",
	},
	models.SpecialGameOverHope: {
		Text: "All hope among the people is lost.",
	},
}
