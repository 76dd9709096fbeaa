package cards_test

import (
	"math"
	"testing"

	"deckswipe-server/internal/cards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawQueue_OrderingByDelayThenFIFO(t *testing.T) {
	q := cards.NewDrawQueue()
	q.Insert(cards.Followup{ID: 102, Delay: 2})
	q.Insert(cards.Followup{ID: 100, Delay: 0})
	q.Insert(cards.Followup{ID: 101, Delay: 1})

	var got []int
	for i := 0; i < 3; i++ {
		f, ok := q.Next()
		require.True(t, ok, "draw %d", i)
		got = append(got, f.ID)
	}
	assert.Equal(t, []int{100, 102, 101}, got)
	assert.Equal(t, 0, q.Len())
}

func TestDrawQueue_NotDueYet(t *testing.T) {
	q := cards.NewDrawQueue()
	q.Insert(cards.Followup{ID: 7, Delay: 3})

	_, ok := q.Next()
	assert.False(t, ok)
	_, ok = q.Next()
	assert.False(t, ok)

	f, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, 7, f.ID)
}

func TestDrawQueue_TiesAreFIFO(t *testing.T) {
	q := cards.NewDrawQueue()
	q.Insert(cards.Followup{ID: 1, Delay: 1})
	q.Insert(cards.Followup{ID: 2, Delay: 1})
	q.Insert(cards.Followup{ID: 3, Delay: 1})

	for _, want := range []int{1, 2, 3} {
		f, ok := q.Next()
		require.True(t, ok)
		assert.Equal(t, want, f.ID)
	}
}

func TestDrawQueue_InsertCopies(t *testing.T) {
	q := cards.NewDrawQueue()
	f := cards.Followup{ID: 5, Delay: 2}
	q.Insert(f)
	q.Insert(f)
	q.Next()

	assert.Equal(t, 2, f.Delay)
	assert.Equal(t, []cards.Followup{{ID: 5, Delay: 1}, {ID: 5, Delay: 1}}, q.Pending())
}

func TestDrawQueue_NegativeDelayIsDueAtOnce(t *testing.T) {
	q := cards.NewDrawQueue()
	q.Insert(cards.Followup{ID: 1, Delay: math.MinInt})
	q.Insert(cards.Followup{ID: 2, Delay: 2})
	assert.Equal(t, []cards.Followup{{ID: 1, Delay: 0}, {ID: 2, Delay: 2}}, q.Pending())

	f, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, 1, f.ID)
	assert.Equal(t, 1, q.Len())
}

func TestDrawQueue_Clear(t *testing.T) {
	q := cards.NewDrawQueue()
	q.Insert(cards.Followup{ID: 1})
	q.Insert(cards.Followup{ID: 2, Delay: 4})
	q.Clear()

	assert.Equal(t, 0, q.Len())
	_, ok := q.Next()
	assert.False(t, ok)
}
