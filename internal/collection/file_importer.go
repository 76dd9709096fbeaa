package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var _ interfaces.CollectionImporter = (*FileImporter)(nil)

// FileImporter reads a collection from a local JSON or YAML file.
// The format is chosen by extension (.yaml/.yml, anything else is JSON).
type FileImporter struct {
	path   string
	logger *zap.Logger
}

func NewFileImporter(path string, logger *zap.Logger) *FileImporter {
	return &FileImporter{path: path, logger: logger.Named("FileImporter")}
}

func (i *FileImporter) Import(ctx context.Context) (*models.ImportedCards, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(i.path)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", i.path, err)
	}

	var file models.CollectionFile
	switch strings.ToLower(filepath.Ext(i.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", i.path, err)
	}

	imported, err := toImported(&file)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", i.path, err)
	}
	i.logger.Info("Collection loaded from file",
		zap.String("path", i.path),
		zap.Int("cards", len(imported.Cards)),
		zap.Int("specialCards", len(imported.SpecialCards)),
	)
	return imported, nil
}
