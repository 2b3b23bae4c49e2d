package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared contract every backend must honour.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "quiz:abc:state")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "quiz:abc:state", `{"score":1}`))
	require.NoError(t, s.Set(ctx, "quiz:abc:state", `{"score":2}`))

	val, found, err := s.Get(ctx, "quiz:abc:state")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"score":2}`, val)

	require.NoError(t, s.Delete(ctx, "quiz:abc:state"))
	_, found, err = s.Get(ctx, "quiz:abc:state")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent key is fine
	require.NoError(t, s.Delete(ctx, "quiz:abc:view"))

	assert.ErrorIs(t, s.Set(ctx, "", "x"), ErrEmptyKey)
}

func TestMemoryStoreContract(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStoreContract(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quiz.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	val, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

type flakyStore struct {
	*Memory
	failures int32
	calls    int32
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	atomic.AddInt32(&f.calls, 1)
	if atomic.AddInt32(&f.failures, -1) >= 0 {
		return errors.New("connection reset")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestRetryingRecoversFromTransientFailures(t *testing.T) {
	flaky := &flakyStore{Memory: NewMemory(), failures: 2}
	s := NewRetrying(flaky, RetryOptions{MaxRetries: 3, BaseDelay: time.Millisecond})

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&flaky.calls))

	exerciseStore(t, s)
}

func TestRetryingGivesUpAfterMaxRetries(t *testing.T) {
	flaky := &flakyStore{Memory: NewMemory(), failures: 10}
	s := NewRetrying(flaky, RetryOptions{MaxRetries: 2, BaseDelay: time.Millisecond})

	err := s.Set(context.Background(), "k", "v")
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, int32(3), atomic.LoadInt32(&flaky.calls))
}

func TestRetryingDoesNotRetryEmptyKey(t *testing.T) {
	flaky := &flakyStore{Memory: NewMemory()}
	s := NewRetrying(flaky, RetryOptions{MaxRetries: 5, BaseDelay: time.Millisecond})

	assert.ErrorIs(t, s.Delete(context.Background(), ""), ErrEmptyKey)
}
