// Package game coordinates one player's session: loading, the run lifecycle,
// card events, survived-time accounting and periodic saves.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"deckswipe-server/internal/cards"
	"deckswipe-server/internal/metrics"
	"deckswipe-server/internal/stats"
	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSaveInterval = 8

	minDaysPerDecision  = 0.5
	daysPerDecisionSpan = 1.0

	publishTimeout = 5 * time.Second
)

// RNG is the randomness source of a session.
type RNG interface {
	IntN(n int) int
	Float64() float64
}

// Presenter receives every drawn card.
type Presenter interface {
	Present(card cards.View, source cards.DrawSource)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(cards.View, cards.DrawSource)

func (f PresenterFunc) Present(card cards.View, source cards.DrawSource) { f(card, source) }

// ProgressStore is the persistence boundary of a session.
type ProgressStore interface {
	Load(ctx context.Context, playerID uuid.UUID) (*models.GameProgress, error)
	Save(ctx context.Context, playerID uuid.UUID, progress *models.GameProgress) error
	SaveAsync(playerID uuid.UUID, progress *models.GameProgress)
}

// Deps are the collaborators of a Game.
type Deps struct {
	PlayerID  uuid.UUID
	Importer  interfaces.CollectionImporter
	Progress  ProgressStore
	Publisher interfaces.RunEventPublisher
	Presenter Presenter
	Notifier  stats.Notifier
	RNG       RNG
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// CardRef identifies the card an event refers to: ID for standard cards, Name
// for terminal cards.
type CardRef struct {
	ID   int    `json:"cardId"`
	Name string `json:"cardName,omitempty"`
}

// Game is one player's session. All methods are safe for concurrent use.
type Game struct {
	playerID     uuid.UUID
	importer     interfaces.CollectionImporter
	store        ProgressStore
	publisher    interfaces.RunEventPublisher
	presenter    Presenter
	rng          RNG
	metrics      *metrics.Metrics
	logger       *zap.Logger
	saveInterval int

	mu                   sync.Mutex
	ready                bool
	registry             *cards.Registry
	stats                *stats.Model
	queue                *cards.DrawQueue
	progress             *models.GameProgress
	current              *cards.Draw
	daysPassedPreviously float64
	daysLastRun          float64
	drawsUntilSave       int
	closed               bool

	loadOnce  sync.Once
	readiness *Readiness

	background sync.WaitGroup
}

// New builds an unloaded session. saveInterval <= 0 selects DefaultSaveInterval.
func New(deps Deps, saveInterval int) *Game {
	if saveInterval <= 0 {
		saveInterval = DefaultSaveInterval
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("Game").With(zap.Stringer("playerID", deps.PlayerID))

	presenter := deps.Presenter
	if presenter == nil {
		presenter = PresenterFunc(func(cards.View, cards.DrawSource) {})
	}

	return &Game{
		playerID:       deps.PlayerID,
		importer:       deps.Importer,
		store:          deps.Progress,
		publisher:      deps.Publisher,
		presenter:      presenter,
		rng:            deps.RNG,
		metrics:        deps.Metrics,
		logger:         logger,
		saveInterval:   saveInterval,
		registry:       cards.NewRegistry(logger),
		stats:          stats.New(deps.Notifier),
		queue:          cards.NewDrawQueue(),
		drawsUntilSave: saveInterval,
	}
}

// Load runs the collection import and the progress load concurrently, then
// attaches progress to the cards and resolves prerequisites. An import failure
// is not fatal: the registry falls back to placeholder cards.
func (g *Game) Load(ctx context.Context) error {
	g.mu.Lock()
	if g.ready {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	var (
		imported  *models.ImportedCards
		importErr error
		progress  *models.GameProgress
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		imported, importErr = g.importer.Import(egCtx)
		return nil
	})
	eg.Go(func() error {
		var err error
		progress, err = g.store.Load(egCtx, g.playerID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if errors.Is(importErr, context.Canceled) || errors.Is(importErr, context.DeadlineExceeded) {
		return fmt.Errorf("load session: %w", importErr)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return nil
	}

	g.registry.Load(imported, importErr)
	if err := g.registry.AttachProgress(progress); err != nil {
		return fmt.Errorf("attach progress: %w", err)
	}
	if err := g.registry.ResolvePrerequisites(); err != nil {
		return fmt.Errorf("resolve prerequisites: %w", err)
	}
	g.progress = progress
	g.ready = true

	g.logger.Info("Session loaded",
		zap.Int("cards", g.registry.Len()),
		zap.Int("drawable", len(g.registry.Drawable())),
		zap.Float64("daysPassed", progress.DaysPassed),
	)
	return nil
}

// LoadAsync starts Load once in the background. Later calls return the same Readiness.
func (g *Game) LoadAsync(ctx context.Context) *Readiness {
	g.loadOnce.Do(func() {
		r := &Readiness{done: make(chan struct{})}
		g.readiness = r
		go func() {
			r.err = g.Load(ctx)
			close(r.done)
		}()
	})
	return g.readiness
}

// Start begins a run: stats are reset and the first card is drawn.
func (g *Game) Start() (cards.View, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkUsable(); err != nil {
		return cards.View{}, err
	}
	return g.startLocked()
}

func (g *Game) startLocked() (cards.View, error) {
	g.daysPassedPreviously = g.progress.DaysPassed
	g.stats.Reset()
	g.publish(models.RunEvent{
		Type:           models.RunEventStarted,
		PlayerID:       g.playerID,
		LongestRunDays: g.progress.LongestRunDays,
	})
	g.logger.Debug("Run started", zap.Float64("daysPassedPreviously", g.daysPassedPreviously))
	return g.drawNextLocked()
}

// OnCardShown marks the current card as shown.
func (g *Game) OnCardShown(ref CardRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	card, err := g.currentCardLocked(ref)
	if err != nil {
		return err
	}
	g.registry.MarkShown(card)
	return nil
}

// DecisionResult is what a decision led to.
type DecisionResult struct {
	Next     cards.View `json:"next"`
	GameOver bool       `json:"gameOver"`
}

// OnDecision commits a side of the current card. A game-over outcome restarts the
// run; any other outcome advances survived time and draws the next card.
func (g *Game) OnDecision(ref CardRef, side cards.Side) (DecisionResult, error) {
	if side != cards.SideLeft && side != cards.SideRight {
		return DecisionResult{}, fmt.Errorf("%w: %q", models.ErrInvalidSide, side)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	card, err := g.currentCardLocked(ref)
	if err != nil {
		return DecisionResult{}, err
	}

	g.registry.MarkDecision(card, side)
	g.metrics.Decision(string(side))

	outcome := card.Outcome(side)
	outcome.Perform(g.stats, g.queue)

	if outcome.GameOver {
		cause := string(g.current.Exhausted)
		if cause == "" {
			cause = "scripted"
		}
		g.metrics.GameOver(cause)
		next, err := g.restartLocked(cause)
		return DecisionResult{Next: next, GameOver: true}, err
	}

	g.progress.AddDays(minDaysPerDecision+g.rng.Float64()*daysPerDecisionSpan, g.daysPassedPreviously)
	next, err := g.drawNextLocked()
	return DecisionResult{Next: next}, err
}

// Restart ends the current run early and starts a new one.
func (g *Game) Restart() (cards.View, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkUsable(); err != nil {
		return cards.View{}, err
	}
	return g.restartLocked("restart")
}

func (g *Game) restartLocked(cause string) (cards.View, error) {
	g.store.SaveAsync(g.playerID, g.progress)
	g.drawsUntilSave = g.saveInterval
	g.daysLastRun = g.progress.DaysPassed - g.daysPassedPreviously
	g.queue.Clear()
	g.publish(models.RunEvent{
		Type:           models.RunEventEnded,
		PlayerID:       g.playerID,
		Cause:          cause,
		DaysSurvived:   g.daysLastRun,
		LongestRunDays: g.progress.LongestRunDays,
	})
	g.logger.Info("Run ended",
		zap.String("cause", cause),
		zap.Float64("daysSurvived", g.daysLastRun),
		zap.Float64("longestRunDays", g.progress.LongestRunDays),
	)
	return g.startLocked()
}

func (g *Game) drawNextLocked() (cards.View, error) {
	draw, err := cards.SelectNext(g.stats, g.registry, g.queue, g.rng)
	if err != nil {
		g.current = nil
		return cards.View{}, fmt.Errorf("draw next card: %w", err)
	}
	g.current = &draw
	g.metrics.Draw(string(draw.Source))

	view := draw.Card.View()
	g.presenter.Present(view, draw.Source)

	g.drawsUntilSave--
	if g.drawsUntilSave <= 0 {
		g.drawsUntilSave = g.saveInterval
		g.store.SaveAsync(g.playerID, g.progress)
	}
	return view, nil
}

func (g *Game) currentCardLocked(ref CardRef) (*cards.Card, error) {
	if err := g.checkUsable(); err != nil {
		return nil, err
	}
	if g.current == nil {
		return nil, fmt.Errorf("no card in play: %w", models.ErrNotCurrentCard)
	}
	card := g.current.Card
	if card.IsTerminal() {
		if ref.Name != card.Name {
			return nil, fmt.Errorf("card %q: %w", ref.Name, models.ErrNotCurrentCard)
		}
	} else if ref.Name != "" || ref.ID != card.ID {
		return nil, fmt.Errorf("card %d: %w", ref.ID, models.ErrNotCurrentCard)
	}
	return card, nil
}

func (g *Game) checkUsable() error {
	if g.closed {
		return models.ErrSessionClosed
	}
	if !g.ready {
		return models.ErrNotReady
	}
	return nil
}

func (g *Game) publish(event models.RunEvent) {
	if g.publisher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	g.background.Add(1)
	go func() {
		defer g.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := g.publisher.PublishRunEvent(ctx, event); err != nil {
			g.logger.Warn("Failed to publish run event", zap.String("type", string(event.Type)), zap.Error(err))
		}
	}()
}

// State is a read-only view of the session.
type State struct {
	Ready          bool             `json:"ready"`
	Card           *cards.View      `json:"card,omitempty"`
	Stats          stats.Snapshot   `json:"stats"`
	DaysPassed     float64          `json:"daysPassed"`
	DaysThisRun    float64          `json:"daysThisRun"`
	DaysLastRun    float64          `json:"daysLastRun"`
	LongestRunDays float64          `json:"longestRunDays"`
	Followups      []cards.Followup `json:"followups"`
}

func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := State{
		Ready:       g.ready,
		Stats:       g.stats.Snapshot(),
		DaysLastRun: g.daysLastRun,
		Followups:   g.queue.Pending(),
	}
	if g.progress != nil {
		s.DaysPassed = g.progress.DaysPassed
		s.DaysThisRun = g.progress.DaysPassed - g.daysPassedPreviously
		s.LongestRunDays = g.progress.LongestRunDays
	}
	if g.current != nil {
		view := g.current.Card.View()
		s.Card = &view
	}
	return s
}

// Close saves the progress synchronously and waits for pending run events.
// The session rejects events afterwards.
func (g *Game) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	var saveErr error
	if g.ready {
		saveErr = g.store.Save(ctx, g.playerID, g.progress)
	}
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(saveErr, fmt.Errorf("wait for run events: %w", ctx.Err()))
	}
	return saveErr
}

// Readiness completes when a background Load finishes.
type Readiness struct {
	done chan struct{}
	err  error
}

// Done is closed when loading finished.
func (r *Readiness) Done() <-chan struct{} {
	return r.done
}

// Err returns the load error once Done is closed, nil before that.
func (r *Readiness) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Wait blocks until loading finished and returns its error. A finished load
// wins over an expired ctx.
func (r *Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
	}
	select {
	case <-r.done:
		return r.err
	default:
		return ctx.Err()
	}
}
