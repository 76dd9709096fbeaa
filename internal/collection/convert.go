package collection

import (
	"fmt"

	"deckswipe-server/shared/models"
)

// toImported indexes a collection file by card id. Duplicate ids are rejected.
func toImported(file *models.CollectionFile) (*models.ImportedCards, error) {
	imported := &models.ImportedCards{
		Cards:        make(map[int]models.CardDefinition, len(file.Cards)),
		SpecialCards: make(map[string]models.CardDefinition, len(file.SpecialCards)),
	}
	for _, def := range file.Cards {
		if _, dup := imported.Cards[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate card id %d", models.ErrInvalidInput, def.ID)
		}
		imported.Cards[def.ID] = def
	}
	for name, def := range file.SpecialCards {
		imported.SpecialCards[name] = def
	}
	return imported, nil
}
