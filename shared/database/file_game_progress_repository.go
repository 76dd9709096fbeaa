package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ interfaces.GameProgressRepository = (*fileGameProgressRepository)(nil)

// fileGameProgressRepository keeps one JSON document per player in dir.
type fileGameProgressRepository struct {
	dir    string
	logger *zap.Logger
}

// NewFileGameProgressRepository creates the directory if needed.
func NewFileGameProgressRepository(dir string, logger *zap.Logger) (interfaces.GameProgressRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir %s: %w", dir, err)
	}
	return &fileGameProgressRepository{dir: dir, logger: logger.Named("FileGameProgressRepo")}, nil
}

func (r *fileGameProgressRepository) path(playerID uuid.UUID) string {
	return filepath.Join(r.dir, playerID.String()+".json")
}

func (r *fileGameProgressRepository) Get(ctx context.Context, playerID uuid.UUID) (*models.GameProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.path(playerID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("read progress file %s: %w", path, err)
	}
	progress := models.NewGameProgress()
	if err := json.Unmarshal(data, progress); err != nil {
		r.logger.Warn("Corrupt progress file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("decode progress file %s: %w", path, err)
	}
	return progress, nil
}

// Save writes to a temp file and renames it over the target.
func (r *fileGameProgressRepository) Save(ctx context.Context, playerID uuid.UUID, progress *models.GameProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal game progress: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, playerID.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp progress file: %w", err)
	}
	if err := os.Rename(tmpName, r.path(playerID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace progress file: %w", err)
	}
	r.logger.Debug("Saved game progress", zap.Stringer("playerID", playerID), zap.Int("bytes", len(data)))
	return nil
}
