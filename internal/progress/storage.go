package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"deckswipe-server/internal/metrics"
	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSaveTimeout = 5 * time.Second

// Storage loads and saves player progress over a repository. Saves run in the
// background on a snapshot; a save that is overtaken by a newer one for the same
// player is skipped.
type Storage struct {
	repo        interfaces.GameProgressRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
	saveTimeout time.Duration

	wg      sync.WaitGroup
	writeMu sync.Mutex

	seqMu  sync.Mutex
	seq    uint64
	latest map[uuid.UUID]uint64
}

func NewStorage(repo interfaces.GameProgressRepository, m *metrics.Metrics, logger *zap.Logger) *Storage {
	return &Storage{
		repo:        repo,
		metrics:     m,
		logger:      logger.Named("ProgressStorage"),
		saveTimeout: defaultSaveTimeout,
		latest:      make(map[uuid.UUID]uint64),
	}
}

// Load returns the stored progress, or fresh progress when there is no record or
// the record cannot be read. Only context cancellation is returned as an error.
func (s *Storage) Load(ctx context.Context, playerID uuid.UUID) (*models.GameProgress, error) {
	log := s.logger.With(zap.Stringer("playerID", playerID))

	progress, err := s.repo.Get(ctx, playerID)
	switch {
	case err == nil && progress != nil:
		log.Debug("Progress loaded", zap.Float64("daysPassed", progress.DaysPassed))
		return progress, nil
	case err == nil, errors.Is(err, models.ErrNotFound):
		log.Info("No saved progress, starting fresh")
	case ctx.Err() != nil:
		return nil, fmt.Errorf("load progress: %w", ctx.Err())
	default:
		log.Warn("Failed to load progress, starting fresh", zap.Error(err))
	}
	return models.NewGameProgress(), nil
}

// Save writes progress synchronously.
func (s *Storage) Save(ctx context.Context, playerID uuid.UUID, progress *models.GameProgress) error {
	seq := s.nextSeq(playerID)
	return s.write(ctx, playerID, progress.Clone(), seq)
}

// SaveAsync snapshots progress and writes it in the background. Errors are
// logged and counted; the next save point retries with fresher data.
func (s *Storage) SaveAsync(playerID uuid.UUID, progress *models.GameProgress) {
	snapshot := progress.Clone()
	seq := s.nextSeq(playerID)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()
		_ = s.write(ctx, playerID, snapshot, seq)
	}()
}

// Flush waits for background saves to finish or ctx to expire.
func (s *Storage) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush progress saves: %w", ctx.Err())
	}
}

func (s *Storage) nextSeq(playerID uuid.UUID) uint64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.seq++
	s.latest[playerID] = s.seq
	return s.seq
}

func (s *Storage) superseded(playerID uuid.UUID, seq uint64) bool {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	return s.latest[playerID] > seq
}

func (s *Storage) write(ctx context.Context, playerID uuid.UUID, snapshot *models.GameProgress, seq uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := s.logger.With(zap.Stringer("playerID", playerID), zap.Uint64("seq", seq))
	if s.superseded(playerID, seq) {
		log.Debug("Skipping superseded save")
		return nil
	}

	err := s.repo.Save(ctx, playerID, snapshot)
	s.metrics.Save(err)
	if err != nil {
		log.Error("Failed to save progress", zap.Error(err))
		return fmt.Errorf("save progress: %w", err)
	}
	log.Debug("Progress saved", zap.Float64("daysPassed", snapshot.DaysPassed))
	return nil
}
