package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"deckswipe-server/internal/cards"
	"deckswipe-server/internal/metrics"
	"deckswipe-server/internal/stats"
	"deckswipe-server/shared/interfaces/mocks"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixedRNG always picks the first drawable card and advances one day per decision.
type fixedRNG struct{}

func (fixedRNG) IntN(int) int     { return 0 }
func (fixedRNG) Float64() float64 { return 0.5 }

type fakeStore struct {
	mu         sync.Mutex
	loaded     *models.GameProgress
	asyncSaves []*models.GameProgress
	syncSaves  []*models.GameProgress
}

func (s *fakeStore) Load(context.Context, uuid.UUID) (*models.GameProgress, error) {
	if s.loaded == nil {
		return models.NewGameProgress(), nil
	}
	return s.loaded, nil
}

func (s *fakeStore) Save(_ context.Context, _ uuid.UUID, p *models.GameProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncSaves = append(s.syncSaves, p.Clone())
	return nil
}

func (s *fakeStore) SaveAsync(_ uuid.UUID, p *models.GameProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asyncSaves = append(s.asyncSaves, p.Clone())
}

func (s *fakeStore) asyncCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.asyncSaves)
}

type recordingPresenter struct {
	draws []cards.DrawSource
	views []cards.View
}

func (p *recordingPresenter) Present(v cards.View, source cards.DrawSource) {
	p.views = append(p.views, v)
	p.draws = append(p.draws, source)
}

func intPtr(v int) *int { return &v }

func def(id int, left, right models.OutcomeDefinition, prereqs ...models.PrerequisiteDefinition) models.CardDefinition {
	return models.CardDefinition{ID: id, Text: "card", LeftText: "no", RightText: "yes", Left: left, Right: right, Prerequisites: prereqs}
}

func imported(defs ...models.CardDefinition) *models.ImportedCards {
	out := &models.ImportedCards{Cards: map[int]models.CardDefinition{}, SpecialCards: map[string]models.CardDefinition{}}
	for _, d := range defs {
		out.Cards[d.ID] = d
	}
	return out
}

type harness struct {
	game      *Game
	store     *fakeStore
	presenter *recordingPresenter
	events    chan models.RunEvent
	snapshots []stats.Snapshot
}

func newHarness(t *testing.T, collection *models.ImportedCards, importErr error, saveInterval int) *harness {
	t.Helper()
	h := &harness{
		store:     &fakeStore{},
		presenter: &recordingPresenter{},
		events:    make(chan models.RunEvent, 32),
	}

	importer := mocks.NewCollectionImporter(t)
	importer.On("Import", mock.Anything).Return(collection, importErr).Maybe()

	publisher := mocks.NewRunEventPublisher(t)
	publisher.On("PublishRunEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { h.events <- args.Get(1).(models.RunEvent) }).
		Return(nil).Maybe()

	h.game = New(Deps{
		PlayerID:  uuid.New(),
		Importer:  importer,
		Progress:  h.store,
		Publisher: publisher,
		Presenter: h.presenter,
		Notifier:  stats.NotifierFunc(func(s stats.Snapshot) { h.snapshots = append(h.snapshots, s) }),
		RNG:       fixedRNG{},
		Metrics:   metrics.New(),
		Logger:    zap.NewNop(),
	}, saveInterval)
	return h
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	require.NoError(t, h.game.Load(context.Background()))
}

func (h *harness) nextEvent(t *testing.T, typ models.RunEventType) models.RunEvent {
	t.Helper()
	for {
		select {
		case e := <-h.events:
			if e.Type == typ {
				return e
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no %s event published", typ)
		}
	}
}

func TestGame_NotReady(t *testing.T) {
	h := newHarness(t, imported(), nil, 0)

	_, err := h.game.Start()
	assert.ErrorIs(t, err, models.ErrNotReady)
	assert.ErrorIs(t, h.game.OnCardShown(CardRef{ID: 0}), models.ErrNotReady)
	assert.False(t, h.game.State().Ready)
}

func TestGame_FallbackOnFailedImport(t *testing.T) {
	h := newHarness(t, nil, errors.New("collection server down"), 0)
	h.load(t)

	view, err := h.game.Start()
	require.NoError(t, err)
	assert.Equal(t, 0, view.ID)
	assert.Equal(t, "standard", view.Kind)
	assert.Equal(t, []cards.DrawSource{cards.SourceRandom}, h.presenter.draws)

	started := h.nextEvent(t, models.RunEventStarted)
	assert.Equal(t, h.game.playerID, started.PlayerID)
}

func TestGame_StartResetsStats(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{})), nil, 0)
	h.load(t)

	_, err := h.game.Start()
	require.NoError(t, err)
	require.NotEmpty(t, h.snapshots)
	last := h.snapshots[len(h.snapshots)-1]
	assert.Equal(t, stats.Snapshot{Coal: 16, Food: 16, Health: 16, Hope: 16}, last)
}

func TestGame_DecisionAdvancesDays(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{Food: -3}, models.OutcomeDefinition{})), nil, 0)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)

	res, err := h.game.OnDecision(CardRef{ID: 1}, cards.SideLeft)
	require.NoError(t, err)
	assert.False(t, res.GameOver)
	assert.Equal(t, 1, res.Next.ID)

	state := h.game.State()
	assert.Equal(t, 13, state.Stats.Food)
	assert.InDelta(t, 1.0, state.DaysPassed, 1e-9)
	assert.InDelta(t, 1.0, state.DaysThisRun, 1e-9)
	assert.InDelta(t, 1.0, state.LongestRunDays, 1e-9)
	require.NotNil(t, state.Card)
	assert.Contains(t, state.Card.Status, "left")
}

func TestGame_StaleAndInvalidEvents(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{})), nil, 0)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)

	assert.ErrorIs(t, h.game.OnCardShown(CardRef{ID: 2}), models.ErrNotCurrentCard)
	assert.ErrorIs(t, h.game.OnCardShown(CardRef{Name: models.SpecialGameOverCoal}), models.ErrNotCurrentCard)

	_, err = h.game.OnDecision(CardRef{ID: 9}, cards.SideRight)
	assert.ErrorIs(t, err, models.ErrNotCurrentCard)

	_, err = h.game.OnDecision(CardRef{ID: 1}, cards.Side("up"))
	assert.ErrorIs(t, err, models.ErrInvalidSide)

	require.NoError(t, h.game.OnCardShown(CardRef{ID: 1}))
}

func TestGame_ExhaustedResourceEndsRun(t *testing.T) {
	collection := imported(
		def(1, models.OutcomeDefinition{Coal: -20, Followup: &models.FollowupDefinition{ID: 1, Delay: 5}}, models.OutcomeDefinition{}),
	)
	h := newHarness(t, collection, nil, 0)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)

	res, err := h.game.OnDecision(CardRef{ID: 1}, cards.SideLeft)
	require.NoError(t, err)
	assert.False(t, res.GameOver)
	assert.Equal(t, "terminal", res.Next.Kind)
	assert.Equal(t, models.SpecialGameOverCoal, res.Next.Name)
	assert.Equal(t, cards.SourceTerminal, h.presenter.draws[len(h.presenter.draws)-1])
	assert.Len(t, h.game.State().Followups, 1)

	require.NoError(t, h.game.OnCardShown(CardRef{Name: models.SpecialGameOverCoal}))
	res, err = h.game.OnDecision(CardRef{Name: models.SpecialGameOverCoal}, cards.SideRight)
	require.NoError(t, err)
	assert.True(t, res.GameOver)
	assert.Equal(t, 1, res.Next.ID)

	state := h.game.State()
	assert.Equal(t, stats.Snapshot{Coal: 16, Food: 16, Health: 16, Hope: 16}, state.Stats)
	assert.Empty(t, state.Followups)
	assert.InDelta(t, 1.0, state.DaysLastRun, 1e-9)
	assert.InDelta(t, 0.0, state.DaysThisRun, 1e-9)
	assert.GreaterOrEqual(t, h.store.asyncCount(), 1)

	ended := h.nextEvent(t, models.RunEventEnded)
	assert.Equal(t, "coal", ended.Cause)
	assert.InDelta(t, 1.0, ended.DaysSurvived, 1e-9)

	special := h.store.asyncSaves[len(h.store.asyncSaves)-1].SpecialCardProgress
	var coal *models.SpecialCardProgress
	for _, e := range special {
		if e.ID == models.SpecialGameOverCoal {
			coal = e
		}
	}
	require.NotNil(t, coal)
	assert.Equal(t, models.CardShown|models.RightActionTaken, coal.Status)
}

func TestGame_FollowupBypassesPrerequisites(t *testing.T) {
	collection := imported(
		def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{Followup: &models.FollowupDefinition{ID: 2, Delay: 0}}),
		// Locked until card 1 is swiped left.
		def(2, models.OutcomeDefinition{}, models.OutcomeDefinition{}, models.PrerequisiteDefinition{CardID: intPtr(1), Status: models.LeftActionTaken}),
	)
	h := newHarness(t, collection, nil, 0)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)

	res, err := h.game.OnDecision(CardRef{ID: 1}, cards.SideRight)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Next.ID)
	assert.Equal(t, cards.SourceFollowup, h.presenter.draws[len(h.presenter.draws)-1])

	res, err = h.game.OnDecision(CardRef{ID: 2}, cards.SideLeft)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Next.ID)
	assert.Equal(t, cards.SourceRandom, h.presenter.draws[len(h.presenter.draws)-1])
}

func TestGame_PersistedStatusesUnlockAtLoad(t *testing.T) {
	collection := imported(
		def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{}),
		def(2, models.OutcomeDefinition{}, models.OutcomeDefinition{}, models.PrerequisiteDefinition{CardID: intPtr(1), Status: models.CardShown | models.RightActionTaken}),
	)
	h := newHarness(t, collection, nil, 0)
	saved := models.NewGameProgress()
	saved.DaysPassed = 10
	saved.CardProgress = append(saved.CardProgress, &models.CardProgress{ID: 1, Status: models.CardShown | models.RightActionTaken})
	h.store.loaded = saved
	h.load(t)

	assert.ElementsMatch(t, []int{1, 2}, h.game.registry.Drawable())
	assert.Len(t, saved.CardProgress, 2, "missing entry filled once")
	assert.Len(t, saved.SpecialCardProgress, 4)

	_, err := h.game.Start()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, h.game.State().DaysThisRun, 1e-9)
	assert.InDelta(t, 10.0, h.game.State().DaysPassed, 1e-9)
}

func TestGame_SavesEveryInterval(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{})), nil, 3)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err := h.game.OnDecision(CardRef{ID: 1}, cards.SideRight)
		require.NoError(t, err)
	}
	// 8 draws with an interval of 3.
	assert.Equal(t, 2, h.store.asyncCount())
}

func TestGame_RestartOnRequest(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{Hope: -4}, models.OutcomeDefinition{})), nil, 0)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)
	_, err = h.game.OnDecision(CardRef{ID: 1}, cards.SideLeft)
	require.NoError(t, err)

	view, err := h.game.Restart()
	require.NoError(t, err)
	assert.Equal(t, 1, view.ID)
	assert.Equal(t, 16, h.game.State().Stats.Hope)

	ended := h.nextEvent(t, models.RunEventEnded)
	assert.Equal(t, "restart", ended.Cause)
}

func TestGame_LoadAsync(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{})), nil, 0)

	r1 := h.game.LoadAsync(context.Background())
	r2 := h.game.LoadAsync(context.Background())
	assert.Same(t, r1, r2)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r1.Wait(ctx))
	assert.True(t, h.game.State().Ready)
}

func TestGame_Close(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{})), nil, 0)
	h.load(t)
	_, err := h.game.Start()
	require.NoError(t, err)

	require.NoError(t, h.game.Close(context.Background()))
	assert.Len(t, h.store.syncSaves, 1)

	_, err = h.game.Start()
	assert.ErrorIs(t, err, models.ErrSessionClosed)
	require.NoError(t, h.game.Close(context.Background()), "second close is a no-op")
}

func TestGame_ReadinessPrefersFinishedLoad(t *testing.T) {
	h := newHarness(t, imported(def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{})), nil, 0)
	r := h.game.LoadAsync(context.Background())
	require.NoError(t, r.Wait(context.Background()))

	expired, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 50; i++ {
		require.NoError(t, r.Wait(expired), "attempt %d", i)
	}
	assert.NoError(t, r.Err())
}

func TestGame_ProgressRoundTrip(t *testing.T) {
	collection := imported(
		def(1, models.OutcomeDefinition{}, models.OutcomeDefinition{}),
		def(2, models.OutcomeDefinition{}, models.OutcomeDefinition{}, models.PrerequisiteDefinition{CardID: intPtr(1), Status: models.RightActionTaken}),
		def(3, models.OutcomeDefinition{}, models.OutcomeDefinition{}, models.PrerequisiteDefinition{CardID: intPtr(2), Status: models.CardShown}),
	)

	first := newHarness(t, collection, nil, 0)
	first.load(t)
	_, err := first.game.Start()
	require.NoError(t, err)
	require.NoError(t, first.game.OnCardShown(CardRef{ID: 1}))
	_, err = first.game.OnDecision(CardRef{ID: 1}, cards.SideRight)
	require.NoError(t, err)
	require.NoError(t, first.game.OnCardShown(CardRef{ID: 1}))
	_, err = first.game.OnDecision(CardRef{ID: 1}, cards.SideLeft)
	require.NoError(t, err)

	before := first.game.State()
	require.NoError(t, first.game.Close(context.Background()))
	require.Len(t, first.store.syncSaves, 1)
	saved := first.store.syncSaves[0]

	second := newHarness(t, collection, nil, 0)
	second.store.loaded = saved.Clone()
	second.load(t)

	for _, id := range []int{1, 2, 3} {
		want, ok := first.game.registry.ForID(id)
		require.True(t, ok)
		got, ok := second.game.registry.ForID(id)
		require.True(t, ok)
		assert.Equal(t, want.Status(), got.Status(), "card %d", id)
	}
	for _, p := range saved.SpecialCardProgress {
		got, ok := second.game.registry.SpecialCard(p.ID)
		require.True(t, ok)
		assert.Equal(t, p.Status, got.Status(), "special card %s", p.ID)
	}
	card1, _ := second.game.registry.ForID(1)
	assert.Equal(t, models.CardShown|models.RightActionTaken|models.LeftActionTaken, card1.Status())
	assert.ElementsMatch(t, []int{1, 2}, second.game.registry.Drawable())

	after := second.game.State()
	assert.InDelta(t, before.DaysPassed, after.DaysPassed, 1e-9)
	assert.InDelta(t, before.LongestRunDays, after.LongestRunDays, 1e-9)
	assert.InDelta(t, 2.0, after.DaysPassed, 1e-9)
}
