package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-session/internal/catalog"
	"github.com/gokatarajesh/quiz-session/internal/store"
)

func colorsCategory() catalog.Category {
	return catalog.Category{
		Title: "Colors",
		Icon:  "./assets/images/icon-colors.svg",
		Questions: []catalog.Question{
			{Text: "Which is warm?", Options: []string{"Red", "Blue"}, Answer: "Red"},
			{Text: "Which is grass?", Options: []string{"Green", "Yellow"}, Answer: "Green"},
		},
	}
}

func planetsCategory() catalog.Category {
	return catalog.Category{
		Title: "Planets",
		Icon:  "./assets/images/icon-planets.svg",
		Questions: []catalog.Question{
			{Text: "Largest?", Options: []string{"Jupiter", "Mars", "Venus"}, Answer: "Jupiter"},
			{Text: "Red planet?", Options: []string{"Mars", "Earth"}, Answer: "Mars"},
			{Text: "Closest to the sun?", Options: []string{"Mercury", "Venus"}, Answer: "Mercury"},
			{Text: "Has rings?", Options: []string{"Saturn", "Mars"}, Answer: "Saturn"},
		},
	}
}

func newTestEngine(t *testing.T, st store.Store) (*Engine, Keys) {
	t.Helper()
	keys := KeysFor(DefaultKeyPrefix, uuid.New())
	return NewEngine(st, keys, zerolog.Nop()), keys
}

func TestSelectCategoryStartsFreshQuiz(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e, keys := newTestEngine(t, st)
	e.Initialize(ctx)

	for _, cat := range []catalog.Category{colorsCategory(), planetsCategory()} {
		require.NoError(t, e.SelectCategory(ctx, cat))

		s := e.State()
		require.NotNil(t, s.CurrentCategory)
		assert.Equal(t, cat, *s.CurrentCategory)
		assert.Equal(t, len(cat.Questions), s.TotalQuestions)
		assert.Equal(t, 0, s.CurrentQuestionIndex)
		assert.Equal(t, 0, s.Score)
		assert.Empty(t, s.SelectedAnswers)
		assert.False(t, s.IsCompleted)
		assert.Equal(t, ViewInProgress, e.ViewState())

		view, found, err := st.Get(ctx, keys.View)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "IN_PROGRESS", view)
	}
}

func TestColorsScenario(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, store.NewMemory())
	e.Initialize(ctx)

	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	assert.Equal(t, ViewInProgress, e.ViewState())
	assert.Equal(t, 0, e.State().CurrentQuestionIndex)

	correct, err := e.SubmitAnswer(ctx, "Red")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, 1, e.State().Score)

	require.NoError(t, e.Advance(ctx))
	assert.Equal(t, 1, e.State().CurrentQuestionIndex)
	assert.Equal(t, ViewInProgress, e.ViewState())

	correct, err = e.SubmitAnswer(ctx, "Yellow")
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, 1, e.State().Score)

	require.NoError(t, e.Advance(ctx))
	s := e.State()
	assert.True(t, s.IsCompleted)
	assert.Equal(t, ViewResult, e.ViewState())
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, 2, s.TotalQuestions)
	assert.Equal(t, map[int]string{0: "Red", 1: "Yellow"}, s.SelectedAnswers)
}

func TestFinalScoreCountsExactMatches(t *testing.T) {
	cases := [][]string{
		{"Jupiter", "Mars", "Mercury", "Saturn"},
		{"Mars", "Earth", "Venus", "Mars"},
		{"Jupiter", "mars", "Mercury ", "Saturn"},
		{"Venus", "Mars", "Venus", "Saturn"},
	}

	for _, answers := range cases {
		ctx := context.Background()
		e, _ := newTestEngine(t, store.NewMemory())
		e.Initialize(ctx)
		cat := planetsCategory()
		require.NoError(t, e.SelectCategory(ctx, cat))

		want := 0
		for i, a := range answers {
			if a == cat.Questions[i].Answer {
				want++
			}
			_, err := e.SubmitAnswer(ctx, a)
			require.NoError(t, err)
			require.NoError(t, e.Advance(ctx))
		}

		s := e.State()
		assert.Equal(t, want, s.Score, "answers %v", answers)
		assert.True(t, s.IsCompleted)
		assert.Equal(t, ViewResult, e.ViewState())
	}
}

func TestRestartReproducesObservableState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e, keys := newTestEngine(t, st)
	e.Initialize(ctx)

	assertRestart := func(step string) {
		t.Helper()
		fresh := NewEngine(st, keys, zerolog.Nop())
		outcome := fresh.Initialize(ctx)

		wantState, wantView := e.Snapshot()
		gotState, gotView := fresh.Snapshot()
		assert.Equal(t, wantState, gotState, step)
		assert.Equal(t, wantView, gotView, step)
		if wantState.CurrentCategory == nil {
			assert.Equal(t, RestoreEmpty, outcome, step)
		} else {
			assert.Equal(t, RestoreRestored, outcome, step)
		}
	}

	assertRestart("initial")
	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	assertRestart("select")
	_, err := e.SubmitAnswer(ctx, "Blue")
	require.NoError(t, err)
	assertRestart("submit")
	require.NoError(t, e.Advance(ctx))
	assertRestart("advance")
	_, err = e.SubmitAnswer(ctx, "Green")
	require.NoError(t, err)
	assertRestart("submit last")
	require.NoError(t, e.Advance(ctx))
	assertRestart("complete")
	e.Reset(ctx)
	assertRestart("reset")
}

func TestInitializeDiscardsOutOfRangeIndex(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e, keys := newTestEngine(t, st)

	s := freshState(colorsCategory())
	s.CurrentQuestionIndex = 3
	raw, err := encodeState(s)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, keys.State, raw))
	require.NoError(t, st.Set(ctx, keys.View, "IN_PROGRESS"))

	outcome := e.Initialize(ctx)

	assert.Equal(t, RestoreDiscarded, outcome)
	assert.Equal(t, emptyState(), e.State())
	assert.Equal(t, ViewStartMenu, e.ViewState())
	assert.Equal(t, 0, st.Len(), "corrupt snapshot must be removed, not clamped")
}

func TestInitializeDiscardsMalformedSnapshots(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"currentCategory":`,
		"wrong type":    `{"currentCategory":null,"currentQuestionIndex":"zero","selectedAnswers":{},"score":0,"totalQuestions":0,"isCompleted":false}`,
		"missing score": `{"currentCategory":null,"currentQuestionIndex":0,"selectedAnswers":{},"totalQuestions":0,"isCompleted":false}`,
		"total mismatch": `{"currentCategory":{"title":"Colors","icon":"i","questions":[{"question":"q","options":["a","b"],"answer":"a"}]},` +
			`"currentQuestionIndex":0,"selectedAnswers":{},"score":0,"totalQuestions":5,"isCompleted":false}`,
		"inflated score": `{"currentCategory":{"title":"Colors","icon":"i","questions":[{"question":"q","options":["a","b"],"answer":"a"}]},` +
			`"currentQuestionIndex":0,"selectedAnswers":{"0":"b"},"score":1,"totalQuestions":1,"isCompleted":false}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := store.NewMemory()
			e, keys := newTestEngine(t, st)
			require.NoError(t, st.Set(ctx, keys.State, raw))

			assert.Equal(t, RestoreDiscarded, e.Initialize(ctx))
			assert.Equal(t, ViewStartMenu, e.ViewState())
			assert.Nil(t, e.State().CurrentCategory)
			assert.Equal(t, 0, st.Len())
		})
	}
}

func TestInitializeRepairsUnknownView(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e, keys := newTestEngine(t, st)

	raw, err := encodeState(freshState(colorsCategory()))
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, keys.State, raw))
	require.NoError(t, st.Set(ctx, keys.View, "QUIZ"))

	assert.Equal(t, RestoreRepaired, e.Initialize(ctx))
	assert.Equal(t, ViewInProgress, e.ViewState())

	view, _, err := st.Get(ctx, keys.View)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", view)
}

func TestInitializeDropsViewWithoutSession(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e, keys := newTestEngine(t, st)
	require.NoError(t, st.Set(ctx, keys.View, "RESULT"))

	assert.Equal(t, RestoreRepaired, e.Initialize(ctx))
	assert.Equal(t, ViewStartMenu, e.ViewState())
	assert.Equal(t, 0, st.Len())
}

func TestInitializeEmptyStoreWritesNothing(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(t, st)

	assert.Equal(t, RestoreEmpty, e.Initialize(context.Background()))
	assert.Equal(t, 0, st.Len())
}

func TestResetClearsStoreFromEveryView(t *testing.T) {
	ctx := context.Background()
	prepare := map[string]func(t *testing.T, e *Engine){
		"start menu": func(t *testing.T, e *Engine) {},
		"in progress": func(t *testing.T, e *Engine) {
			require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
		},
		"result": func(t *testing.T, e *Engine) {
			require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
			require.NoError(t, e.Advance(ctx))
			require.NoError(t, e.Advance(ctx))
		},
	}

	for name, setup := range prepare {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemory()
			e, keys := newTestEngine(t, st)
			e.Initialize(ctx)
			setup(t, e)

			e.Reset(ctx)

			assert.Equal(t, ViewStartMenu, e.ViewState())
			assert.Equal(t, emptyState(), e.State())
			_, found, _ := st.Get(ctx, keys.State)
			assert.False(t, found)
			_, found, _ = st.Get(ctx, keys.View)
			assert.False(t, found)
		})
	}
}

func TestSubmitAnswerGuards(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, store.NewMemory())
	e.Initialize(ctx)

	_, err := e.SubmitAnswer(ctx, "Red")
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))

	_, err = e.SubmitAnswer(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.SubmitAnswer(ctx, "Blue")
	require.NoError(t, err)
	_, err = e.SubmitAnswer(ctx, "Red")
	assert.ErrorIs(t, err, ErrInvalidState, "second submission for the same question")
	assert.Equal(t, 0, e.State().Score)

	require.NoError(t, e.Advance(ctx))
	require.NoError(t, e.Advance(ctx))
	_, err = e.SubmitAnswer(ctx, "Green")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAdvanceGuards(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, store.NewMemory())
	e.Initialize(ctx)

	assert.ErrorIs(t, e.Advance(ctx), ErrInvalidState)
	assert.Equal(t, ViewStartMenu, e.ViewState())

	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	require.NoError(t, e.Advance(ctx))
	require.NoError(t, e.Advance(ctx))
	assert.ErrorIs(t, e.Advance(ctx), ErrInvalidState)
	assert.Equal(t, 1, e.State().CurrentQuestionIndex)
}

func TestSelectCategoryRejectsMalformedWithoutMutation(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	e, _ := newTestEngine(t, st)
	e.Initialize(ctx)
	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	_, err := e.SubmitAnswer(ctx, "Red")
	require.NoError(t, err)
	before := e.State()

	bad := planetsCategory()
	bad.Questions = nil
	assert.ErrorIs(t, e.SelectCategory(ctx, bad), ErrInvalidInput)

	bad = planetsCategory()
	bad.Title = ""
	err = e.SelectCategory(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, catalog.ErrMissingTitle)

	assert.Equal(t, before, e.State())
	assert.Equal(t, ViewInProgress, e.ViewState())
}

func TestRetryFromResultRestartsCleanly(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, store.NewMemory())
	e.Initialize(ctx)
	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	_, _ = e.SubmitAnswer(ctx, "Red")
	require.NoError(t, e.Advance(ctx))
	_, _ = e.SubmitAnswer(ctx, "Green")
	require.NoError(t, e.Advance(ctx))
	require.Equal(t, ViewResult, e.ViewState())

	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))

	s := e.State()
	assert.Equal(t, ViewInProgress, e.ViewState())
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 0, s.CurrentQuestionIndex)
	assert.Empty(t, s.SelectedAnswers)
	assert.False(t, s.IsCompleted)
}

func TestStateSnapshotsDoNotAlias(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, store.NewMemory())
	e.Initialize(ctx)
	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	_, _ = e.SubmitAnswer(ctx, "Red")

	s := e.State()
	s.SelectedAnswers[0] = "Blue"
	s.CurrentCategory.Questions[0].Answer = "Blue"
	s.Score = 99

	again := e.State()
	assert.Equal(t, "Red", again.SelectedAnswers[0])
	assert.Equal(t, "Red", again.CurrentCategory.Questions[0].Answer)
	assert.Equal(t, 1, again.Score)
}

type brokenStore struct {
	calls int
}

var errStoreDown = errors.New("quota exceeded")

func (b *brokenStore) Get(context.Context, string) (string, bool, error) {
	b.calls++
	return "", false, errStoreDown
}

func (b *brokenStore) Set(context.Context, string, string) error {
	b.calls++
	return errStoreDown
}

func (b *brokenStore) Delete(context.Context, string) error {
	b.calls++
	return errStoreDown
}

func TestStoreFailuresNeverRollBackMemory(t *testing.T) {
	ctx := context.Background()
	st := &brokenStore{}
	e, _ := newTestEngine(t, st)

	assert.Equal(t, RestoreUnavailable, e.Initialize(ctx))
	assert.Equal(t, ViewStartMenu, e.ViewState())

	require.NoError(t, e.SelectCategory(ctx, colorsCategory()))
	correct, err := e.SubmitAnswer(ctx, "Red")
	require.NoError(t, err)
	assert.True(t, correct)
	require.NoError(t, e.Advance(ctx))

	s := e.State()
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, 1, s.CurrentQuestionIndex)
	assert.Greater(t, st.calls, 1)

	e.Reset(ctx)
	assert.Equal(t, ViewStartMenu, e.ViewState())
}
