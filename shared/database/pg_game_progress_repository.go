package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.GameProgressRepository = (*pgGameProgressRepository)(nil)

type pgGameProgressRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgGameProgressRepository creates a Postgres-backed GameProgressRepository.
func NewPgGameProgressRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.GameProgressRepository {
	return &pgGameProgressRepository{
		pool:   pool,
		logger: logger.Named("PgGameProgressRepo"),
	}
}

// gameProgressRow mirrors the game_progress table; per-card lists are JSONB.
type gameProgressRow struct {
	PlayerID            uuid.UUID `db:"player_id"`
	DaysPassed          float64   `db:"days_passed"`
	LongestRunDays      float64   `db:"longest_run_days"`
	CardProgress        []byte    `db:"card_progress"`
	SpecialCardProgress []byte    `db:"special_card_progress"`
	UpdatedAt           time.Time `db:"updated_at"`
}

const getGameProgressQuery = `
SELECT player_id, days_passed, longest_run_days, card_progress, special_card_progress, updated_at
FROM game_progress
WHERE player_id = $1`

const upsertGameProgressQuery = `
INSERT INTO game_progress (player_id, days_passed, longest_run_days, card_progress, special_card_progress, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (player_id) DO UPDATE SET
    days_passed = EXCLUDED.days_passed,
    longest_run_days = EXCLUDED.longest_run_days,
    card_progress = EXCLUDED.card_progress,
    special_card_progress = EXCLUDED.special_card_progress,
    updated_at = EXCLUDED.updated_at
`

// Get loads the player's progress, models.ErrNotFound if there is none.
func (r *pgGameProgressRepository) Get(ctx context.Context, playerID uuid.UUID) (*models.GameProgress, error) {
	logFields := []zap.Field{zap.Stringer("playerID", playerID)}

	var row gameProgressRow
	if err := pgxscan.Get(ctx, r.pool, &row, getGameProgressQuery, playerID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get game progress", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("get game progress: %w", err)
	}

	progress := models.NewGameProgress()
	progress.DaysPassed = row.DaysPassed
	progress.LongestRunDays = row.LongestRunDays
	if err := unmarshalJSONB(row.CardProgress, &progress.CardProgress); err != nil {
		r.logger.Error("Failed to unmarshal card progress", append(logFields, zap.Error(err))...)
		return nil, err
	}
	if err := unmarshalJSONB(row.SpecialCardProgress, &progress.SpecialCardProgress); err != nil {
		r.logger.Error("Failed to unmarshal special card progress", append(logFields, zap.Error(err))...)
		return nil, err
	}

	r.logger.Debug("Retrieved game progress", logFields...)
	return progress, nil
}

// Save upserts the player's progress record.
func (r *pgGameProgressRepository) Save(ctx context.Context, playerID uuid.UUID, progress *models.GameProgress) error {
	logFields := []zap.Field{zap.Stringer("playerID", playerID), zap.Float64("daysPassed", progress.DaysPassed)}

	cardJSON, err := json.Marshal(nonNilCards(progress.CardProgress))
	if err != nil {
		r.logger.Error("Failed to marshal card progress for upsert", append(logFields, zap.Error(err))...)
		return fmt.Errorf("marshal card progress: %w", err)
	}
	specialJSON, err := json.Marshal(nonNilSpecials(progress.SpecialCardProgress))
	if err != nil {
		r.logger.Error("Failed to marshal special card progress for upsert", append(logFields, zap.Error(err))...)
		return fmt.Errorf("marshal special card progress: %w", err)
	}

	_, err = r.pool.Exec(ctx, upsertGameProgressQuery,
		playerID,
		progress.DaysPassed,
		progress.LongestRunDays,
		cardJSON,
		specialJSON,
		time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert game progress", append(logFields, zap.Error(err))...)
		return fmt.Errorf("upsert game progress: %w", err)
	}

	r.logger.Debug("Upserted game progress", logFields...)
	return nil
}

func unmarshalJSONB(data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}

func nonNilCards(entries []*models.CardProgress) []*models.CardProgress {
	if entries == nil {
		return []*models.CardProgress{}
	}
	return entries
}

func nonNilSpecials(entries []*models.SpecialCardProgress) []*models.SpecialCardProgress {
	if entries == nil {
		return []*models.SpecialCardProgress{}
	}
	return entries
}
